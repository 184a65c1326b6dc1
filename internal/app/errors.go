package service

import (
	"fmt"

	"github.com/okian/zrinyi/internal/adapters/http/api"
)

// ErrNoResult is returned by read operations before the first run completes.
var ErrNoResult = fmt.Errorf("no completed run: %w", api.ErrNotReady)
