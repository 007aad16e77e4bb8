// Package category holds the active Work/Travel selection of a session.
package category

import "github.com/idilsaglam/wt/internal/model"

// Controller tracks the active category. It is not persisted: every
// launch starts in Work.
type Controller struct {
	active model.Category
}

func New() *Controller { return &Controller{active: model.Work} }

// Set makes v active. Values other than Work and Travel are ignored.
func (c *Controller) Set(v model.Category) {
	if v.Valid() {
		c.active = v
	}
}

func (c *Controller) Get() model.Category { return c.active }

func (c *Controller) SwitchToWork()   { c.Set(model.Work) }
func (c *Controller) SwitchToTravel() { c.Set(model.Travel) }

// Toggle flips between Work and Travel and returns the new value.
func (c *Controller) Toggle() model.Category {
	if c.active == model.Work {
		c.active = model.Travel
	} else {
		c.active = model.Work
	}
	return c.active
}
