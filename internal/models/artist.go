package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/songsheet/internal/shared"
)

// Artist is a performer. Many partitions reference one artist.
type Artist struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Validate requires a non-blank name.
func (a *Artist) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrInvalidInput)
	}
	return nil
}
