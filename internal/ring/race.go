// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ring

// RaceEnabled is true when the race detector is active.
// Concurrent ring tests skip under it: slot values are ordered by atomix
// cycles, which the detector cannot see.
const RaceEnabled = true
