package cmd

import (
	"context"
)

// journalCleaner is what the cleanup schedule needs from the journal
// store. Tests substitute a counting fake.
type journalCleaner interface {
	Cleanup(ctx context.Context) error
}
