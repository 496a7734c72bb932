package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResults reads a results CSV written by Run back into Result
// values, for the analysis stage to consume without re-running any
// solves.
func LoadResults(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("experiment: open results: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("experiment: read results: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(rows)-1)
	for i, row := range rows[1:] {
		res, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("experiment: results row %d: %w", i+2, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func parseRow(row []string) (Result, error) {
	if len(row) != len(csvHeader) {
		return Result{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Result{}, err
	}
	size, err := strconv.Atoi(row[1])
	if err != nil {
		return Result{}, err
	}
	rep, err := strconv.Atoi(row[4])
	if err != nil {
		return Result{}, err
	}
	wallTime, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return Result{}, err
	}
	decisions, err := strconv.Atoi(row[7])
	if err != nil {
		return Result{}, err
	}
	backtracks, err := strconv.Atoi(row[8])
	if err != nil {
		return Result{}, err
	}
	unitProps, err := strconv.Atoi(row[9])
	if err != nil {
		return Result{}, err
	}
	conflicts, err := strconv.Atoi(row[10])
	if err != nil {
		return Result{}, err
	}
	peakMem, err := strconv.ParseFloat(row[11], 64)
	if err != nil {
		return Result{}, err
	}
	timeoutLimit, err := strconv.ParseFloat(row[12], 64)
	if err != nil {
		return Result{}, err
	}
	timedOut, err := strconv.ParseBool(row[13])
	if err != nil {
		return Result{}, err
	}
	correct, err := strconv.ParseBool(row[14])
	if err != nil {
		return Result{}, err
	}

	return Result{
		PuzzleID:         id,
		PuzzleSize:       size,
		ExpectedStatus:   row[2],
		Variant:          row[3],
		Repetition:       rep,
		Status:           row[5],
		WallTime:         time.Duration(wallTime * float64(time.Second)),
		Decisions:        decisions,
		Backtracks:       backtracks,
		UnitPropagations: unitProps,
		Conflicts:        conflicts,
		PeakMemoryMB:     peakMem,
		TimeoutLimit:     time.Duration(timeoutLimit * float64(time.Second)),
		TimedOut:         timedOut,
		Correct:          correct,
	}, nil
}
