package repository

import (
	"context"
	"time"
)

// WithTimeout acota una operación de persistencia a d. Con d <= 0 solo agrega cancelación.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
