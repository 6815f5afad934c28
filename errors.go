// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mandel

import "errors"

// ErrInvalidConfig is returned by NewConfig for dimensions, budgets,
// bounds, strategies or output settings that cannot be rendered. Palette
// errors also match palette.ErrInvalidPalette.
var ErrInvalidConfig = errors.New("mandel: invalid config")
