package availability

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// Источники занятости. Записи с разными источниками не склеиваются
// между собой: вызывающий различает блокировку персонала, подтвержденную
// запись и оплаченный удерживаемый слот.
const (
	SourceManual    = "manually_set"
	SourceScheduled = "scheduled_booking"
	SourceHeld      = "held_booking"
)

// Entry одна запись занятости на дату
type Entry struct {
	Source    string             `json:"source"`
	Slot      string             `json:"slot"`
	BookingID *int64             `json:"booking_id,omitempty"`
	Status    *string            `json:"status,omitempty"`
	interval  timerange.Interval // разобранная форма для проверок пересечений
}

// Interval возвращает интервал записи в разобранной форме. Ошибка
// возможна только для записи, восстановленной из кэша с испорченным
// текстом слота
func (e *Entry) Interval() (timerange.Interval, error) {
	if e.interval.IsZero() {
		parsed, err := timerange.Parse(e.Slot)
		if err != nil {
			return timerange.Interval{}, err
		}
		e.interval = parsed
	}
	return e.interval, nil
}

// DayView представление занятости на дату
type DayView struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

// SlotCheck результат проверки конкретного интервала.
// HeldCount — количество пересечений, не булев признак: несколько
// оплаченных удержаний могут сосуществовать на одном слоте.
type SlotCheck struct {
	HeldCount       int  `json:"held_count"`
	BlockedByManual bool `json:"blocked_by_manual"`
}

func newEntry(source string, iv timerange.Interval, bookingID *int64, status *string) Entry {
	return Entry{
		Source:    source,
		Slot:      iv.String(),
		BookingID: bookingID,
		Status:    status,
		interval:  iv,
	}
}

func formatDate(date time.Time) string {
	return date.Format("2006-01-02")
}
