package cart_test

import (
	"context"

	"github.com/your-org/bookstore-backend/internal/domain/cart"
)

func quantities(c cart.Cart) []int {
	out := make([]int, 0, len(c))
	for _, line := range c {
		out = append(out, line.Quantity)
	}
	return out
}

func ids(c cart.Cart) []int64 {
	out := make([]int64, 0, len(c))
	for _, line := range c {
		out = append(out, line.ID)
	}
	return out
}

type panicFeedback struct{}

func (panicFeedback) Success(context.Context) { panic("haptics unavailable") }
func (panicFeedback) Warning(context.Context) { panic("haptics unavailable") }
func (panicFeedback) Error(context.Context)   { panic("haptics unavailable") }
func (panicFeedback) Light(context.Context)   { panic("haptics unavailable") }
