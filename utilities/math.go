/*
 * This file is part of ccbench.
 *
 * ccbench is free software: you can redistribute it and/or modify it under
 * the terms of the GNU General Public License as published by the Free Software Foundation,
 * either version 2 of the License, or (at your option) any later version.
 * ccbench is distributed in the hope that it will be useful, but WITHOUT ANY
 * WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A
 * PARTICULAR PURPOSE. See the GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with ccbench. If not, see <https://www.gnu.org/licenses/>.
 */

package utilities

import (
	"math"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func CalculateAverage[T Number](elements []T) float64 {
	total := T(0)
	for i := 0; i < len(elements); i++ {
		total += elements[i]
	}
	return float64(total) / float64(len(elements))
}

// CalculatePercentile uses nearest-rank selection on a sorted copy of
// elements. p outside [1, 100] yields T(0).
func CalculatePercentile[T Number](elements []T, p uint) (result T) {
	result = T(0)
	if p < 1 || p > 100 {
		return
	}

	sorted := make([]T, len(elements))
	copy(sorted, elements)
	slices.Sort(sorted)

	pindex := int((float64(p) / float64(100)) * float64(len(sorted)))
	if pindex >= len(sorted) {
		pindex = len(sorted) - 1
	}
	if pindex < 0 {
		return
	}
	result = sorted[pindex]
	return
}

// MeanAbsoluteDifference is the mean of the absolute first differences
// of elements in their given order. With fewer than two elements there
// are no differences and the result is 0.
func MeanAbsoluteDifference[T Number](elements []T) float64 {
	if len(elements) < 2 {
		return 0
	}

	total := float64(0)
	for i := 1; i < len(elements); i++ {
		total += math.Abs(float64(elements[i]) - float64(elements[i-1]))
	}
	return total / float64(len(elements)-1)
}
