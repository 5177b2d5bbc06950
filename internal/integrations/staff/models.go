package staff

// Member модель сотрудника из StaffService
type Member struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Roles        []string `json:"roles"`
	Capabilities []int64  `json:"capabilities"` // Идентификаторы услуг, которые сотрудник вправе выполнять
	Active       bool     `json:"active"`
}

// CanPerform проверяет, что сотрудник допущен к услуге
func (m *Member) CanPerform(serviceID int64) bool {
	for _, id := range m.Capabilities {
		if id == serviceID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
