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

import "testing"

func TestCalculateAverage(t *testing.T) {
	if average := CalculateAverage([]float64{4, 5, 6}); average != 5.0 {
		t.Fatalf("Average of [4, 5, 6] should be 5.0, got %f.", average)
	}
}

func TestCalculatePercentileNearestRank(t *testing.T) {
	if p := CalculatePercentile([]float64{4, 5, 6}, 90); p != 6 {
		t.Fatalf("90th percentile of [4, 5, 6] should be 6, got %f.", p)
	}
	if p := CalculatePercentile([]int{3, 1, 2}, 50); p != 2 {
		t.Fatalf("50th percentile of unsorted [3, 1, 2] should be 2, got %d.", p)
	}
}

func TestCalculatePercentileDoesNotMutate(t *testing.T) {
	elements := []int{3, 1, 2}
	CalculatePercentile(elements, 90)
	if elements[0] != 3 || elements[1] != 1 || elements[2] != 2 {
		t.Fatalf("CalculatePercentile mutated its input: %v.", elements)
	}
}

func TestCalculatePercentileDegenerate(t *testing.T) {
	if p := CalculatePercentile([]int{1, 2, 3}, 101); p != 0 {
		t.Fatalf("Percentile of 101 should yield 0, got %d.", p)
	}
	if p := CalculatePercentile([]int{1, 2, 3}, 0); p != 0 {
		t.Fatalf("Percentile of 0 should yield 0, got %d.", p)
	}
}

func TestMeanAbsoluteDifference(t *testing.T) {
	if jitter := MeanAbsoluteDifference([]float64{100, 200, 150}); jitter != 75 {
		t.Fatalf("Mean absolute difference of [100, 200, 150] should be 75, got %f.", jitter)
	}
	if jitter := MeanAbsoluteDifference([]float64{100}); jitter != 0 {
		t.Fatalf("Mean absolute difference of a single element should be 0, got %f.", jitter)
	}
}
