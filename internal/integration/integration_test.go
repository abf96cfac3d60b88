package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"cricket-stats-game/internal/app"
	"cricket-stats-game/internal/domain"
	pgstore "cricket-stats-game/internal/infra/postgres"
	pgmigrations "cricket-stats-game/internal/infra/postgres/migrations"
	infraredis "cricket-stats-game/internal/infra/redis"
	"cricket-stats-game/internal/infra/sheet"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// correctedCSV drops Muralitharan and Lara from their days.
const correctedCSV = `Date,playerName,playerImage,Country,Role,question,answer
2025-01-15,Sachin Tendulkar,,India,Batter,Career Test Runs,15921
2025-01-15,Jacques Kallis,,South Africa,All-rounder,Test Batting Average,55.37
2025-01-16,Shane Warne,,Australia,Bowler,Test Wickets,708
`

const sheetCSV = `Date,playerName,playerImage,Country,Role,question,answer
2025-01-15,Sachin Tendulkar,,India,Batter,Career Test Runs,"15,921"
2025-01-15,Muttiah Muralitharan,,Sri Lanka,Bowler,Test Wickets,800
1/15/2025,Jacques Kallis,,South Africa,All-rounder,Test Batting Average,55.37
2025-01-16,Brian Lara,,West Indies,Batter,Highest Test Score,400
`

func TestImportAndPlayEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	imported := importSheet(t, ctx, pgURL, sheetCSV)
	if imported != 4 {
		t.Fatalf("expected 4 imported rows, got %d", imported)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewRosterLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()
	rosters := infraredis.NewRosterRepository(redisClient, loader, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewGameService(sessions, rosters,
		app.WithClock(func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) }),
	)

	size, err := service.ChallengeSize(ctx, "2025-01-15")
	if err != nil || size != 3 {
		t.Fatalf("expected 3 players for today, got %d (%v)", size, err)
	}

	answers := map[string]float64{"Sachin Tendulkar": 15921, "Muttiah Muralitharan": 800, "Jacques Kallis": 55.37}

	state, err := service.Start(ctx, "e2e", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	question := state.Question
	for round := 0; round < 3; round++ {
		if question == nil {
			t.Fatalf("missing question in round %d", round)
		}
		result, err := service.Submit(ctx, "e2e", answers[question.Name])
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if result.Points != 125 {
			t.Fatalf("expected 125 for %s, got %d", question.Name, result.Points)
		}
		question = result.Next
		if round == 2 && (!result.Complete || result.Summary == nil || result.Summary.TotalScore != 375) {
			t.Fatalf("expected completed game with 375, got %+v", result)
		}
	}

	dates, err := service.GameDates(ctx)
	if err != nil {
		t.Fatalf("game dates: %v", err)
	}
	available := map[string]bool{}
	for _, d := range dates {
		available[d.Date] = d.Available
	}
	if !available["2025-01-15"] || !available["2025-01-16"] || available["2025-01-14"] {
		t.Fatalf("unexpected availability %+v", available)
	}

	if n := importSheet(t, ctx, pgURL, correctedCSV); n != 3 {
		t.Fatalf("expected 3 rows in corrected import, got %d", n)
	}
	players, err := loader.LoadRoster(ctx, "2025-01-15")
	if err != nil {
		t.Fatalf("load corrected roster: %v", err)
	}
	if len(players) != 2 || players[0].Name != "Sachin Tendulkar" || players[1].Name != "Jacques Kallis" {
		t.Fatalf("expected corrected roster of 2, got %+v", players)
	}
	players, err = loader.LoadRoster(ctx, "2025-01-16")
	if err != nil {
		t.Fatalf("load corrected roster: %v", err)
	}
	if len(players) != 1 || players[0].Name != "Shane Warne" {
		t.Fatalf("expected Warne to replace Lara, got %+v", players)
	}

	service.End(ctx, "e2e")
	if _, err := service.State(ctx, "e2e"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "cricket", "POSTGRES_PASSWORD": "cricketpass", "POSTGRES_DB": "cricketdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://cricket:cricketpass@%s:%s/cricketdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func importSheet(t *testing.T, ctx context.Context, dsn, csv string) int {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	rows, err := sheet.ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse sheet: %v", err)
	}
	n, err := pgstore.NewImporter(db).Import(ctx, rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	// A second import upserts in place.
	if _, err := pgstore.NewImporter(db).Import(ctx, rows); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	return n
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
