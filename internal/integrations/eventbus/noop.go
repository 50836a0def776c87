package eventbus

import "context"

// Noop публикатор для драйвера "none"
type Noop struct{}

// Publish ничего не делает
func (Noop) Publish(context.Context, Event) error { return nil }

// Close ничего не делает
func (Noop) Close() error { return nil }
