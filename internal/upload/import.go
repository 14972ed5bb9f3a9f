// Package upload implements the history import pipeline: walk a directory of
// session export files and replay them against a running LiftLog server.
package upload

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stats tracks import progress.
type Stats struct {
	FilesTotal    int
	FilesImported int
	FilesSkipped  int
	FilesErrored  int

	ExercisesCreated int
	WorkoutsCreated  int
	SessionsCreated  int
}

// Importer walks an export directory, skips files the state DB has seen, and
// replays each session against the server: resolve exercises, resolve the
// workout, start, update, then complete or abandon.
type Importer struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats

	exerciseIDs map[string]string // name -> id, lazily filled from the server
	workoutIDs  map[string]string
}

// New creates a new Importer.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the import pipeline over every .json file under the directory.
func (im *Importer) Run() (*Stats, error) {
	if !im.dryRun {
		if err := im.loadCatalog(); err != nil {
			return &im.stats, err
		}
	}

	err := filepath.WalkDir(im.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		im.stats.FilesTotal++
		if err := im.importFile(path); err != nil {
			im.stats.FilesErrored++
			im.log.Error("import failed", "file", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return &im.stats, fmt.Errorf("walking %s: %w", im.dir, err)
	}
	return &im.stats, nil
}

// loadCatalog fetches the existing exercises and workouts so reruns reuse
// server-side entries instead of duplicating them.
func (im *Importer) loadCatalog() error {
	im.exerciseIDs = map[string]string{}
	im.workoutIDs = map[string]string{}

	exercises, err := im.client.ListExercises()
	if err != nil {
		return fmt.Errorf("fetching exercise catalog: %w", err)
	}
	for _, e := range exercises {
		im.exerciseIDs[e.Name] = e.ID
	}

	workouts, err := im.client.ListWorkouts()
	if err != nil {
		return fmt.Errorf("fetching workouts: %w", err)
	}
	for _, w := range workouts {
		im.workoutIDs[w.Name] = w.ID
	}
	return nil
}

func (im *Importer) importFile(path string) error {
	relPath, err := filepath.Rel(im.dir, path)
	if err != nil {
		relPath = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	done, err := im.state.IsImported(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("state lookup: %w", err)
	}
	if done {
		im.stats.FilesSkipped++
		im.log.Debug("already imported", "file", relPath)
		return nil
	}

	export, err := ReadExport(path)
	if err != nil {
		return err
	}

	if im.dryRun {
		im.log.Info("would import", "file", relPath, "workout", export.WorkoutName, "exercises", len(export.Exercises))
		im.stats.FilesImported++
		return nil
	}

	if err := im.replay(export); err != nil {
		return err
	}

	if err := im.state.MarkImported(relPath, info.Size(), hash); err != nil {
		return fmt.Errorf("recording state: %w", err)
	}
	im.stats.FilesImported++
	im.log.Info("imported", "file", relPath, "workout", export.WorkoutName)
	return nil
}

// replay pushes one exported session through the server's lifecycle.
func (im *Importer) replay(export *SessionExport) error {
	workoutID, err := im.resolveWorkout(export)
	if err != nil {
		return err
	}

	sessionID, err := im.client.StartSession(workoutID)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	im.stats.SessionsCreated++

	performed, err := export.Performances(im.exerciseIDs)
	if err != nil {
		return err
	}
	if err := im.client.UpdateSession(sessionID, performed); err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	if export.Abandoned {
		if err := im.client.AbandonSession(sessionID, export.AbandonReason); err != nil {
			return fmt.Errorf("abandoning session: %w", err)
		}
		return nil
	}
	if err := im.client.CompleteSession(sessionID, export.Notes); err != nil {
		return fmt.Errorf("completing session: %w", err)
	}
	return nil
}

// resolveWorkout returns the server id for the export's workout, creating
// the exercises and the workout as needed.
func (im *Importer) resolveWorkout(export *SessionExport) (string, error) {
	if id, ok := im.workoutIDs[export.WorkoutName]; ok {
		return id, nil
	}

	exerciseIDs := make([]string, 0, len(export.Exercises))
	for _, ex := range export.Exercises {
		id, ok := im.exerciseIDs[ex.Name]
		if !ok {
			var err error
			id, err = im.client.CreateExercise(ex.Name, ex.Type, ex.Category, ex.RestSeconds)
			if err != nil {
				return "", fmt.Errorf("creating exercise %q: %w", ex.Name, err)
			}
			im.exerciseIDs[ex.Name] = id
			im.stats.ExercisesCreated++
		}
		exerciseIDs = append(exerciseIDs, id)
	}

	id, err := im.client.CreateWorkout(export.WorkoutName, exerciseIDs)
	if err != nil {
		return "", fmt.Errorf("creating workout %q: %w", export.WorkoutName, err)
	}
	im.workoutIDs[export.WorkoutName] = id
	im.stats.WorkoutsCreated++
	return id, nil
}
