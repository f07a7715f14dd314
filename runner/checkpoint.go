package runner

import (
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"

	bettererrors "github.com/xtuc/better-errors"
)

var modelFilePattern = regexp.MustCompile(`^model_(\d+)\.json$`)

// ResolveCheckpointPath locates a checkpoint under a log root laid out as
// <logRoot>/<run>/model_<iteration>.json. Empty loadRun or loadCheckpoint
// select the latest run (lexically) and the highest iteration; non-empty
// values must match exactly. Every failure is fatal for startup.
func ResolveCheckpointPath(logRoot string, loadRun string, loadCheckpoint string) (string, error) {
	entries, err := os.ReadDir(logRoot)
	if err != nil {
		return "", bettererrors.
			New("Could not read the experiment log root").
			SetContext("logRoot", logRoot).
			With(bettererrors.NewFromErr(err))
	}

	runs := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, entry.Name())
		}
	}
	if len(runs) == 0 {
		return "", bettererrors.
			New("No runs found under the experiment log root").
			SetContext("logRoot", logRoot)
	}
	sort.Strings(runs)

	run := runs[len(runs)-1]
	if loadRun != "" {
		found := false
		for _, candidate := range runs {
			if candidate == loadRun {
				found = true
				break
			}
		}
		if !found {
			return "", bettererrors.
				New("Requested run does not exist").
				SetContext("logRoot", logRoot).
				SetContext("run", loadRun)
		}
		run = loadRun
	}

	runDir := path.Join(logRoot, run)
	if loadCheckpoint != "" {
		checkpoint := path.Join(runDir, loadCheckpoint)
		if _, err := os.Stat(checkpoint); err != nil {
			return "", bettererrors.
				New("Requested checkpoint does not exist").
				SetContext("run", run).
				SetContext("checkpoint", loadCheckpoint)
		}
		return checkpoint, nil
	}

	files, err := os.ReadDir(runDir)
	if err != nil {
		return "", bettererrors.
			New("Could not read the run directory").
			SetContext("run", runDir).
			With(bettererrors.NewFromErr(err))
	}

	best := ""
	bestIteration := -1
	for _, file := range files {
		match := modelFilePattern.FindStringSubmatch(file.Name())
		if match == nil {
			continue
		}
		iteration, _ := strconv.Atoi(match[1])
		if iteration > bestIteration {
			bestIteration = iteration
			best = file.Name()
		}
	}

	if best == "" {
		return "", bettererrors.
			New("Run contains no model checkpoints").
			SetContext("run", runDir)
	}

	return path.Join(runDir, best), nil
}
