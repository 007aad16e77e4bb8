package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/wt/internal/model"
)

func TestControllerDefaultsToWork(t *testing.T) {
	assert.Equal(t, model.Work, New().Get())
}

func TestControllerSwitches(t *testing.T) {
	c := New()
	c.SwitchToTravel()
	assert.Equal(t, model.Travel, c.Get())
	c.SwitchToTravel()
	assert.Equal(t, model.Travel, c.Get())
	c.SwitchToWork()
	assert.Equal(t, model.Work, c.Get())
}

func TestControllerToggle(t *testing.T) {
	c := New()
	assert.Equal(t, model.Travel, c.Toggle())
	assert.Equal(t, model.Work, c.Toggle())
}

func TestControllerSetIgnoresInvalid(t *testing.T) {
	c := New()
	c.Set(model.Travel)
	c.Set(model.Category(42))
	assert.Equal(t, model.Travel, c.Get())
}
