package manage_blocks

import (
	"context"

	manageBlocks "github.com/m04kA/SMC-WorkshopService/internal/usecase/manage_blocks"
)

type ManageBlocksUseCase interface {
	Execute(ctx context.Context, req *manageBlocks.Request) (*manageBlocks.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
