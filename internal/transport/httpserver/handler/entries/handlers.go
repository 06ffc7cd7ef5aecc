package entries

import (
	entriesdomain "finance-app-go/internal/domain/entries"
	"finance-app-go/pkg/logger"
)

type Handlers struct {
	Entries *entriesdomain.Service
	log     logger.Logger
}

func New(entries *entriesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Entries: entries,
		log:     log,
	}
}
