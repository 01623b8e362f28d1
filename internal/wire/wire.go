// Package wire provides dependency injection for the kinship application.
// It assembles the SQLite repositories and application services for one
// project file.
package wire

import (
	"database/sql"

	"github.com/example/kinship/internal/adapters/sqlite"
	"github.com/example/kinship/internal/app"
	"github.com/example/kinship/internal/db"
	"github.com/example/kinship/internal/ports/primary"
)

// App bundles the application services wired onto one open project file.
type App struct {
	Import  primary.ImportService
	Build   primary.BuildService
	Cluster primary.ClusterService
	Status  primary.StatusService

	database *sql.DB
}

// Open opens an existing project file and wires the services. The caller
// must Close the returned App.
func Open(projectPath string) (*App, error) {
	database, err := db.Open(projectPath)
	if err != nil {
		return nil, err
	}
	return newApp(database), nil
}

// Create initializes a new project file and wires the services. The caller
// must Close the returned App.
func Create(projectPath string, force bool) (*App, error) {
	database, err := db.Create(projectPath, force)
	if err != nil {
		return nil, err
	}
	return newApp(database), nil
}

func newApp(database *sql.DB) *App {
	metaRepo := sqlite.NewMetaRepository(database)
	kitRepo := sqlite.NewKitRepository(database)
	segmentRepo := sqlite.NewSegmentRepository(database)
	matchRepo := sqlite.NewMatchRepository(database)
	triangleRepo := sqlite.NewTriangleRepository(database)
	negativeRepo := sqlite.NewNegativeRepository(database)
	derivedRepo := sqlite.NewDerivedRepository(database)
	statsRepo := sqlite.NewStatsRepository(database)

	return &App{
		Import:   app.NewImportService(metaRepo, kitRepo, segmentRepo, matchRepo, triangleRepo),
		Build:    app.NewBuildService(metaRepo, kitRepo, segmentRepo, matchRepo, triangleRepo, derivedRepo),
		Cluster:  app.NewClusterService(metaRepo, kitRepo, matchRepo, triangleRepo, negativeRepo),
		Status:   app.NewStatusService(metaRepo, statsRepo),
		database: database,
	}
}

// Close releases the project file.
func (a *App) Close() error {
	return a.database.Close()
}
