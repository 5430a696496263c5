package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Tahskajuha/KEDB-capstone/config"
	"github.com/Tahskajuha/KEDB-capstone/internal/entities"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	env := "production"
	entry, err := repo.CreateEntry(ctx, entities.Entry{
		Title:       "API gateway returns 502 under load",
		Description: "Upstream connections are dropped when the pool is exhausted.",
		Severity:    entities.SeverityHigh,
		Environment: &env,
		CreatedBy:   "alice",
	}, []entities.EntrySymptom{
		{Description: "502 responses spike above 5%", OrderIndex: 0},
		{Description: "upstream_connect_error in gateway logs", OrderIndex: 1},
	}, []entities.EntryIncident{
		{IncidentID: "INC-1042", IncidentSource: "pagerduty"},
	})
	require.NoError(t, err)
	require.Equal(t, entities.StateDraft, entry.WorkflowState)
	require.Len(t, entry.Symptoms, 2)
	require.Len(t, entry.Incidents, 1)

	fetched, err := repo.GetEntryWithRelations(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.Title, fetched.Title)
	require.Len(t, fetched.Symptoms, 2)

	summaries, total, err := repo.ListEntries(ctx, entities.EntryFilter{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, summaries, 1)

	review, err := repo.CreateReview(ctx, entities.Review{EntryID: entry.ID},
		[]entities.ReviewParticipant{
			{UserID: "alice", Role: entities.RoleLead},
			{UserID: "bob", Role: entities.RoleReviewer},
		}, entities.StateInReview)
	require.NoError(t, err)
	require.Equal(t, entities.ReviewPending, review.Status)
	require.Len(t, review.Participants, 2)

	inReview, err := repo.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StateInReview, inReview.WorkflowState)

	// A second pending review on the same entry must be refused.
	_, err = repo.CreateReview(ctx, entities.Review{EntryID: entry.ID}, nil, entities.StateInReview)
	require.ErrorIs(t, err, entities.ErrWorkflowViolation)

	decided, err := repo.DecideReview(ctx, review.ID, entities.ReviewApproved, "bob",
		entry.ID, entities.StatePublished, true)
	require.NoError(t, err)
	require.Equal(t, entities.ReviewApproved, decided.Status)
	for _, p := range decided.Participants {
		if p.UserID == "bob" {
			require.NotNil(t, p.ApprovedAt)
		}
	}

	published, err := repo.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StatePublished, published.WorkflowState)
	require.NotNil(t, published.ApprovedBy)
	require.Equal(t, "bob", *published.ApprovedBy)
	require.NotNil(t, published.ApprovedAt)

	// The decision is final: a second one loses the compare-and-set.
	_, err = repo.DecideReview(ctx, review.ID, entities.ReviewRejected, "alice",
		entry.ID, entities.StateDraft, false)
	require.ErrorIs(t, err, entities.ErrReviewDecided)

	retired, err := repo.UpdateWorkflowState(ctx, entry.ID, entities.StatePublished, entities.StateRetired, nil, nil)
	require.NoError(t, err)
	require.Equal(t, entities.StateRetired, retired.WorkflowState)

	// Retired is terminal; the state-guarded update surfaces the violation.
	_, err = repo.UpdateWorkflowState(ctx, entry.ID, entities.StateRetired, entities.StatePublished, nil, nil)
	require.ErrorIs(t, err, entities.ErrWorkflowViolation)
}

func TestRepositoryDecisionRaceIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	entry, err := repo.CreateEntry(ctx, entities.Entry{
		Title:       "Cache stampede on deploy",
		Description: "Cold cache after rollout causes database saturation.",
		Severity:    entities.SeverityCritical,
		CreatedBy:   "alice",
	}, nil, nil)
	require.NoError(t, err)

	review, err := repo.CreateReview(ctx, entities.Review{EntryID: entry.ID},
		[]entities.ReviewParticipant{
			{UserID: "alice", Role: entities.RoleLead},
			{UserID: "bob", Role: entities.RoleReviewer},
		}, entities.StateInReview)
	require.NoError(t, err)

	type outcome struct {
		status entities.ReviewStatus
		err    error
	}
	results := make(chan outcome, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := repo.DecideReview(ctx, review.ID, entities.ReviewApproved, "bob",
			entry.ID, entities.StatePublished, true)
		results <- outcome{status: entities.ReviewApproved, err: err}
	}()
	go func() {
		defer wg.Done()
		_, err := repo.DecideReview(ctx, review.ID, entities.ReviewRejected, "alice",
			entry.ID, entities.StateDraft, false)
		results <- outcome{status: entities.ReviewRejected, err: err}
	}()
	wg.Wait()
	close(results)

	var winners, losers int
	var winnerStatus entities.ReviewStatus
	for res := range results {
		if res.err == nil {
			winners++
			winnerStatus = res.status
		} else {
			losers++
			require.ErrorIs(t, res.err, entities.ErrReviewDecided)
		}
	}
	require.Equal(t, 1, winners)
	require.Equal(t, 1, losers)

	final, err := repo.GetReview(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, winnerStatus, final.Status)

	finalEntry, err := repo.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	if winnerStatus == entities.ReviewApproved {
		require.Equal(t, entities.StatePublished, finalEntry.WorkflowState)
	} else {
		require.Equal(t, entities.StateDraft, finalEntry.WorkflowState)
	}
}

func TestRepositorySolutionsAndTagsIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	entry, err := repo.CreateEntry(ctx, entities.Entry{
		Title:       "Disk pressure evictions on worker nodes",
		Description: "Pods are evicted when the image cache fills the root volume.",
		Severity:    entities.SeverityMedium,
		CreatedBy:   "carol",
	}, nil, nil)
	require.NoError(t, err)

	expected := "image cache pruned"
	solution, err := repo.CreateSolution(ctx, entities.Solution{
		EntryID:      entry.ID,
		Title:        "Prune image cache",
		Description:  "Run garbage collection on the container runtime image cache.",
		SolutionType: entities.SolutionWorkaround,
		CreatedBy:    "carol",
	}, []entities.SolutionStep{
		{OrderIndex: 0, Action: "drain node", StepMetadata: map[string]any{"grace_seconds": 30}},
		{OrderIndex: 1, Action: "prune images", ExpectedResult: &expected},
	})
	require.NoError(t, err)
	require.Len(t, solution.Steps, 2)

	withSteps, err := repo.GetSolutionWithSteps(ctx, solution.ID)
	require.NoError(t, err)
	require.Len(t, withSteps.Steps, 2)
	require.Equal(t, "drain node", withSteps.Steps[0].Action)

	tag, err := repo.CreateTag(ctx, entities.Tag{Name: "kubernetes"})
	require.NoError(t, err)

	_, err = repo.CreateTag(ctx, entities.Tag{Name: "kubernetes"})
	require.ErrorIs(t, err, entities.ErrTagExists)

	link, err := repo.TagEntry(ctx, entry.ID, tag.ID, "carol")
	require.NoError(t, err)
	require.Equal(t, tag.ID, link.TagID)

	_, err = repo.TagEntry(ctx, entry.ID, tag.ID, "carol")
	require.ErrorIs(t, err, entities.ErrEntryTagged)

	tags, err := repo.ListEntryTags(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.NotNil(t, tags[0].Tag)
	require.Equal(t, "kubernetes", tags[0].Tag.Name)

	require.NoError(t, repo.UntagEntry(ctx, entry.ID, tag.ID))
	require.ErrorIs(t, repo.UntagEntry(ctx, entry.ID, tag.ID), entities.ErrEntryNotTagged)

	require.NoError(t, repo.SaveEntryEmbedding(ctx, entities.EntryEmbedding{
		EntryID:   entry.ID,
		ModelName: "text-embedding-3-small",
		Dimension: 3,
		Embedding: []float32{0.1, 0.2, 0.3},
	}))
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=kedb_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")

	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:   config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "kedb_db",
			SSLMode:        "disable",
			MigrationsDir:  migrationsDir,
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", "host=localhost port="+hostPort+" user=postgres password=postgres dbname=kedb_db sslmode=disable")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
