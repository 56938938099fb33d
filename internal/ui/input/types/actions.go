package types

import "tvnav/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction domain.Direction
}

func (a NavigateAction) Type() string { return "navigate" }

type ActivateAction struct{}

func (a ActivateAction) Type() string { return "activate" }

type BackAction struct{}

func (a BackAction) Type() string { return "back" }
