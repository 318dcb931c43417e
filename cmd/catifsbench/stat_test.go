package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatRejectsNoWorkers(t *testing.T) {
	saved := statWorkers
	t.Cleanup(func() { statWorkers = saved })

	for _, n := range []int{0, -3} {
		statWorkers = n
		err := runStat(statCmd, []string{t.TempDir()})
		assert.ErrorContains(t, err, "--workers must be at least 1")
	}
}
