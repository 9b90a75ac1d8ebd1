// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pathway-workers/internal/common/config"
	"pathway-workers/internal/common/database"
	"pathway-workers/internal/common/logger"

	// Import all worker packages
	checkreadinessscore "pathway-workers/internal/workers/evaluation/check-readiness-score"
	evaluatepathways "pathway-workers/internal/workers/evaluation/evaluate-pathways"
	routeoutcome "pathway-workers/internal/workers/evaluation/route-outcome"
	validateprofile "pathway-workers/internal/workers/evaluation/validate-profile"

	querycatalog "pathway-workers/internal/workers/catalog/query-catalog"
	searchprograms "pathway-workers/internal/workers/catalog/search-programs"
	verifysources "pathway-workers/internal/workers/catalog/verify-sources"

	buildactionplan "pathway-workers/internal/workers/planning/build-action-plan"

	createsessionrecord "pathway-workers/internal/workers/session/create-session-record"

	notifyplanready "pathway-workers/internal/workers/notification/notify-plan-ready"
)

var (
	zeebeClient zbc.Client
	zapLog      *zap.Logger
)

func TestMain(m *testing.M) {
	var err error

	// The suite needs the full docker-compose stack. When Zeebe is not
	// reachable the tests skip instead of failing.
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	if err != nil {
		fmt.Printf("⚠️ Zeebe not reachable, e2e tests will be skipped: %v\n", err)
		zeebeClient = nil
	}

	zapLog, _ = zap.NewProduction()

	code := m.Run()

	if zeebeClient != nil {
		zeebeClient.Close()
	}
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	if zeebeClient == nil {
		t.Skip("Skipping E2E tests: Zeebe is not reachable on localhost:26500")
	}

	_, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	t.Log("🚀 Starting FULL E2E Test with real services...")

	// 1. Check all external services are available
	assertAllServicesConnectivity(t, cfg)

	// 2. Create DB tables if needed and insert catalog seed data
	createDatabaseTables(t, cfg)

	// 3. Deploy all BPMN files
	deployAllBPMN(t, cfg, zapLog)

	// 4. Test all 10 workers with real execution
	testAllWorkers(t, cfg, zapLog)

	t.Log("✅ ALL TESTS PASSED, full E2E run successful!")
}

func assertAllServicesConnectivity(t *testing.T, cfg *config.Config) {
	t.Log("🔍 Checking service connectivity...")

	// The compose stack exposes everything on localhost.
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.URL = "http://localhost:9200"

	// --- PostgreSQL ---
	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	assert.NoError(t, db.Ping(context.Background()), "❌ PostgreSQL ping failed")
	db.Close()
	t.Log("✅ PostgreSQL connected")

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "❌ Redis client creation failed")
	assert.NoError(t, rdb.Ping(context.Background()), "❌ Redis ping failed")
	rdb.Close()
	t.Log("✅ Redis connected")

	// --- Elasticsearch ---
	esURL := cfg.Database.Elasticsearch.GetURL()
	t.Logf("🔗 Elasticsearch URL: %s", esURL)

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
	})
	require.NoError(t, err, "❌ Elasticsearch client creation failed")

	res, err := es.Info()
	require.NoError(t, err, "❌ Elasticsearch info request failed")
	assert.False(t, res.IsError(), "❌ Elasticsearch returned error")
	res.Body.Close()
	t.Log("✅ Elasticsearch connected")

	// --- Zeebe ---
	_, err = zeebeClient.NewTopologyCommand().Send(context.Background())
	assert.NoError(t, err, "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")
}

// ==========================
// 2. Database Tables Setup + Catalog Seed Data
// ==========================
func createDatabaseTables(t *testing.T, cfg *config.Config) {
	t.Log("🔧 Creating database tables and inserting catalog seed data...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	db := dbClient.GetDB()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS rules (
			rule_id VARCHAR(100) PRIMARY KEY,
			active BOOLEAN DEFAULT TRUE,
			student_level VARCHAR(50) NOT NULL,
			interest_tags TEXT[] DEFAULT '{}',
			destination_tags TEXT[] DEFAULT '{}',
			min_spm_credits INTEGER,
			required_subjects_json JSONB,
			min_cgpa NUMERIC,
			budget_min INTEGER,
			budget_max INTEGER,
			english_min VARCHAR(50),
			constraints_json JSONB,
			pathway_title TEXT NOT NULL,
			pathway_summary TEXT DEFAULT '',
			cost_estimate_text TEXT DEFAULT '',
			visa_note TEXT DEFAULT '',
			scholarship_likelihood TEXT DEFAULT '',
			readiness_gaps TEXT[] DEFAULT '{}',
			next_steps TEXT DEFAULT '',
			priority_weight INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS university_programs (
			program_code VARCHAR(100) PRIMARY KEY,
			active BOOLEAN DEFAULT TRUE,
			university_name VARCHAR(255) NOT NULL,
			country VARCHAR(100) NOT NULL,
			program_name VARCHAR(255) NOT NULL,
			program_level VARCHAR(50) NOT NULL,
			field_tags TEXT[] DEFAULT '{}',
			intake_terms TEXT[] DEFAULT '{}',
			application_deadline_text TEXT,
			admission_requirements_json JSONB,
			tuition_yearly_min_myr INTEGER,
			tuition_yearly_max_myr INTEGER,
			ielts_min NUMERIC,
			toefl_min INTEGER,
			qs_overall_rank INTEGER,
			mohe_listed BOOLEAN DEFAULT FALSE,
			ptptn_eligible BOOLEAN DEFAULT FALSE,
			source_codes TEXT[] DEFAULT '{}',
			source_urls_json JSONB,
			application_url TEXT,
			contact_email TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255),
			organization_id VARCHAR(255),
			mode VARCHAR(50),
			language VARCHAR(20),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS session_inputs (
			id SERIAL PRIMARY KEY,
			session_id VARCHAR(255) REFERENCES sessions(id),
			inputs_json JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			id VARCHAR(255) PRIMARY KEY,
			session_id VARCHAR(255) REFERENCES sessions(id),
			results_json JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id SERIAL PRIMARY KEY,
			event_type VARCHAR(100),
			resource_type VARCHAR(100),
			resource_id VARCHAR(255),
			details JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS organizations (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255),
			account_tier VARCHAR(50) DEFAULT 'standard',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS external_sources (
			source_code VARCHAR(100) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			base_url TEXT NOT NULL,
			active BOOLEAN DEFAULT TRUE,
			last_checked_at TIMESTAMP,
			last_status VARCHAR(50)
		)`,
	}

	for _, query := range queries {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to create table: %v", err)
		}
	}

	testData := []string{
		`INSERT INTO rules (rule_id, active, student_level, interest_tags, destination_tags,
			min_spm_credits, budget_min, budget_max, english_min,
			pathway_title, pathway_summary, priority_weight)
		 VALUES ('R1', TRUE, 'SPM', '{business,management}', '{local}',
			3, 500, 2500, 'Beginner',
			'Local Private Diploma in Business', 'Diploma route at a private college', 10)
		 ON CONFLICT (rule_id) DO NOTHING`,
		`INSERT INTO rules (rule_id, active, student_level, interest_tags, destination_tags,
			min_cgpa, budget_min, budget_max, english_min,
			pathway_title, pathway_summary, priority_weight)
		 VALUES ('R2', TRUE, 'Diploma', '{business}', '{local,abroad}',
			2.5, 800, 4000, 'Intermediate',
			'Degree Transfer Program', 'Credit transfer into a partner degree', 8)
		 ON CONFLICT (rule_id) DO NOTHING`,
		`INSERT INTO university_programs (program_code, active, university_name, country,
			program_name, program_level, field_tags, intake_terms,
			tuition_yearly_min_myr, tuition_yearly_max_myr,
			mohe_listed, ptptn_eligible)
		 VALUES ('SUN-DIB-001', TRUE, 'Sunway University', 'Malaysia',
			'Diploma in Business', 'diploma', '{business,management}', '{January,July}',
			18000, 25000,
			TRUE, TRUE)
		 ON CONFLICT (program_code) DO NOTHING`,
		`INSERT INTO university_programs (program_code, active, university_name, country,
			program_name, program_level, field_tags, intake_terms,
			tuition_yearly_min_myr, tuition_yearly_max_myr, ielts_min,
			mohe_listed, ptptn_eligible)
		 VALUES ('TAY-BBA-002', TRUE, 'Taylors University', 'Malaysia',
			'Bachelor of Business Administration', 'degree', '{business}', '{February,September}',
			32000, 38000, 5.5,
			TRUE, TRUE)
		 ON CONFLICT (program_code) DO NOTHING`,
		`INSERT INTO organizations (id, name, account_tier)
		 VALUES ('org-premium-001', 'Premium Counseling Center', 'premium')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO organizations (id, name, account_tier)
		 VALUES ('org-standard-001', 'Community School', 'standard')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO external_sources (source_code, name, base_url, active)
		 VALUES ('SRC-MOHE', 'MOHE Programme Register', 'https://www.mohe.gov.my', TRUE)
		 ON CONFLICT (source_code) DO NOTHING`,
	}

	for _, query := range testData {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to insert seed data: %v", err)
		}
	}

	t.Log("✅ Database tables created/verified with catalog seed data")
}

// ==========================
// 3. Deploy All BPMN Files
// ==========================
func deployAllBPMN(t *testing.T, _ *config.Config, _ *zap.Logger) {
	t.Log("🏗️ Deploying BPMN files...")

	client := zeebeClient

	possiblePaths := []string{
		"bpmn",
		"../bpmn",
		"../../bpmn",
		"./bpmn",
	}

	var bpmnDir string
	var files []os.DirEntry

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			entries, err := os.ReadDir(path)
			if err == nil {
				bpmnDir = path
				files = entries
				t.Logf("📁 Found BPMN directory: %s", bpmnDir)
				break
			}
		}
	}

	if bpmnDir == "" {
		t.Log("⚠️ BPMN directory not found in any expected location, skipping deployment")
		return
	}

	bpmnCount := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name()), ".bpmn") {
			continue
		}

		path := fmt.Sprintf("%s/%s", bpmnDir, f.Name())
		t.Logf("📄 Deploying BPMN: %s", path)

		_, err := client.NewDeployResourceCommand().AddResourceFile(path).Send(context.Background())
		if err != nil {
			t.Logf("⚠️ Failed to deploy BPMN %s: %v", f.Name(), err)
		} else {
			t.Logf("✅ Deployed: %s", f.Name())
			bpmnCount++
		}
	}

	if bpmnCount == 0 {
		t.Log("ℹ️ No BPMN files were successfully deployed")
	} else {
		t.Logf("✅ Successfully deployed %d BPMN files", bpmnCount)
	}
}

// ==========================
// 4. Test All 10 Workers
// ==========================
func testAllWorkers(t *testing.T, cfg *config.Config, log *zap.Logger) {
	t.Log("🧪 Testing all 10 workers with real execution...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	db := dbClient.GetDB()

	esURL := cfg.Database.Elasticsearch.GetURL()
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{esURL}})
	require.NoError(t, err)

	rdbClient, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdbClient.Close()

	rdb := rdbClient.GetClient()

	testCases := []struct {
		name   string
		testFn func(*testing.T, *config.Config, *zap.Logger, *sql.DB, *elasticsearch.Client, *redis.Client)
	}{
		{"validate-student-profile", testValidateProfile},
		{"query-catalog", testQueryCatalog},
		{"evaluate-pathways", testEvaluatePathways},
		{"check-readiness-score", testCheckReadinessScore},
		{"route-evaluation-outcome", testRouteOutcome},
		{"build-action-plan", testBuildActionPlan},
		{"search-programs", testSearchPrograms},
		{"verify-catalog-sources", testVerifySources},
		{"create-session-record", testCreateSessionRecord},
		{"notify-plan-ready", testNotifyPlanReady},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.testFn(t, cfg, log, db, es, rdb)
		})
	}
}

// validSPMProfile is the wizard payload used across the worker tests. It
// matches the seeded SPM rule R1.
func validSPMProfile() map[string]interface{} {
	return map[string]interface{}{
		"student_level":  "SPM",
		"spm_credits":    6,
		"interest_tags":  []interface{}{"business"},
		"budget_monthly": 1500,
		"english_self":   "Intermediate",
	}
}

func testValidateProfile(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := validateprofile.NewHandler(&validateprofile.Config{
		Timeout: 10 * time.Second,
	}, logger.NewZapAdapter(log))

	output, err := handler.Execute(context.Background(), &validateprofile.Input{
		SessionID: "e2e-validate",
		Profile:   validSPMProfile(),
	})
	require.NoError(t, err)
	assert.True(t, output.ProfileValid)
	assert.Empty(t, output.ValidationErrors)
	assert.Equal(t, "SPM", output.NormalizedProfile.StudentLevel)

	// Missing student_level must be rejected.
	_, err = handler.Execute(context.Background(), &validateprofile.Input{
		Profile: map[string]interface{}{"budget_monthly": 1500},
	})
	assert.Error(t, err)
}

func testQueryCatalog(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := querycatalog.NewHandler(&querycatalog.Config{
		Timeout: 5 * time.Second,
	}, db, logger.NewZapAdapter(log))

	output, err := handler.Execute(context.Background(), &querycatalog.Input{
		QueryType: string(querycatalog.QueryTypeRulesByLevel),
		Level:     "SPM",
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, output.RowCount, 1, "seeded rule R1 should be returned")

	_, err = handler.Execute(context.Background(), &querycatalog.Input{
		QueryType: "unknown_query",
	})
	assert.Error(t, err)
}

func testEvaluatePathways(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := evaluatepathways.NewHandler(&evaluatepathways.Config{
		DefaultTopN:    5,
		ResultCacheTTL: time.Minute,
		Timeout:        10 * time.Second,
	}, db, rdb, nil, logger.NewZapAdapter(log))

	sessionID := fmt.Sprintf("e2e-eval-%d", time.Now().UnixNano())
	input := &evaluatepathways.Input{
		SessionID: sessionID,
		Profile:   validSPMProfile(),
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, output.Result)
	assert.False(t, output.CacheHit)
	assert.GreaterOrEqual(t, output.ReadinessScore, 0)
	assert.LessOrEqual(t, output.ReadinessScore, 100)

	// Second call for the same session must come from the Redis cache.
	cached, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, cached.CacheHit)
}

func testCheckReadinessScore(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := checkreadinessscore.NewHandler(&checkreadinessscore.Config{
		HighBandMin:   70,
		MediumBandMin: 40,
		Timeout:       5 * time.Second,
	}, logger.NewZapAdapter(log))

	output, err := handler.Execute(context.Background(), &checkreadinessscore.Input{
		Profile: validSPMProfile(),
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, output.ReadinessScore, 0)
	assert.LessOrEqual(t, output.ReadinessScore, 100)
	assert.Contains(t, []string{"high", "medium", "low"}, output.ReadinessBand)
}

func testRouteOutcome(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := routeoutcome.NewHandler(&routeoutcome.Config{
		OrgTierTTL: time.Minute,
		Timeout:    5 * time.Second,
	}, db, rdb, logger.NewZapAdapter(log))

	output, err := handler.Execute(context.Background(), &routeoutcome.Input{
		SessionID:      "e2e-route",
		OrgID:          "org-premium-001",
		ReadinessScore: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, routeoutcome.TierPremium, output.OrgTier)
	assert.Equal(t, routeoutcome.PriorityHigh, output.RoutingPriority)
	assert.Equal(t, routeoutcome.BandHigh, output.ReadinessBand)
}

func testBuildActionPlan(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := buildactionplan.NewHandler(&buildactionplan.Config{
		Timeout: 5 * time.Second,
	}, logger.NewZapAdapter(log))

	output, err := handler.Execute(context.Background(), &buildactionplan.Input{
		SessionID:         "e2e-plan",
		Profile:           validSPMProfile(),
		MissingConditions: []string{"English level significantly below requirement"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.SevenDayActions)
	assert.NotEmpty(t, output.ThirtyDayPlan)
}

func testSearchPrograms(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := searchprograms.NewHandler(&searchprograms.Config{
		IndexName: "university_programs",
		Timeout:   10 * time.Second,
	}, es, logger.NewZapAdapter(log))

	// The compose stack does not index programs, so a missing index is the
	// expected outcome here.
	_, err := handler.Execute(context.Background(), &searchprograms.Input{
		IndexName: "nonexistent_index",
		QueryType: searchprograms.QueryTypeProgramSearch,
		Filters:   map[string]interface{}{"country": "Malaysia"},
	})
	assert.Error(t, err)
}

func testVerifySources(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := verifysources.NewHandler(&verifysources.Config{
		RequestTimeout: 2 * time.Second,
		UserAgent:      "pathway-workers-e2e/1.0",
		MaxSources:     5,
		Timeout:        30 * time.Second,
	}, db, logger.NewZapAdapter(log))

	// A closed port fails the source but not the sweep.
	output, err := handler.Execute(context.Background(), &verifysources.Input{
		SourceURLs:   []string{"http://localhost:1"},
		SkipRegistry: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.SourcesChecked)
	assert.Equal(t, 1, output.SourcesFailed)
	assert.NotEmpty(t, output.CheckedAt)
}

func testCreateSessionRecord(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := createsessionrecord.NewHandler(&createsessionrecord.Config{
		Timeout: 5 * time.Second,
	}, db, logger.NewZapAdapter(log))

	sessionID := fmt.Sprintf("e2e-session-%d", time.Now().UnixNano())
	output, err := handler.Execute(context.Background(), &createsessionrecord.Input{
		SessionID:     sessionID,
		UserID:        "e2e-user",
		OrgID:         "org-standard-001",
		Mode:          createsessionrecord.ModeStudent,
		Language:      "en",
		Profile:       validSPMProfile(),
		Result:        map[string]interface{}{"no_match": false},
		ConsentToSave: true,
	})
	require.NoError(t, err)
	assert.True(t, output.Saved)
	assert.Equal(t, sessionID, output.SessionRecordID)
	assert.NotEmpty(t, output.RecommendationID)

	// The same session must not be recorded twice.
	_, err = handler.Execute(context.Background(), &createsessionrecord.Input{
		SessionID:     sessionID,
		ConsentToSave: true,
	})
	assert.Error(t, err)
}

func testNotifyPlanReady(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler, err := notifyplanready.NewHandler(&notifyplanready.Config{
		EmailEnabled: false,
		SMSEnabled:   false,
		Timeout:      5 * time.Second,
	}, logger.NewZapAdapter(log))
	require.NoError(t, err)

	// Both channels disabled: the worker records the notification as
	// disabled without touching AWS.
	output, err := handler.Execute(context.Background(), &notifyplanready.Input{
		SessionID:      "e2e-notify",
		RecipientName:  "Aisyah",
		RecipientEmail: "aisyah@example.com",
		ReadinessScore: 72,
		TopPathway:     "Local Private Diploma in Business",
	})
	require.NoError(t, err)
	assert.Equal(t, notifyplanready.StatusDisabled, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	assert.NotEmpty(t, output.SentAt)
}

// ==========================
// Benchmark Tests
// ==========================
func BenchmarkHandler_ValidateProfile(b *testing.B) {
	handler := validateprofile.NewHandler(&validateprofile.Config{
		Timeout: 10 * time.Second,
	}, logger.NewStructured("error", "json"))

	input := &validateprofile.Input{Profile: validSPMProfile()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_CheckReadinessScore(b *testing.B) {
	handler := checkreadinessscore.NewHandler(&checkreadinessscore.Config{
		HighBandMin:   70,
		MediumBandMin: 40,
		Timeout:       5 * time.Second,
	}, logger.NewStructured("error", "json"))

	input := &checkreadinessscore.Input{Profile: validSPMProfile()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_BuildActionPlan(b *testing.B) {
	handler := buildactionplan.NewHandler(&buildactionplan.Config{
		Timeout: 5 * time.Second,
	}, logger.NewStructured("error", "json"))

	input := &buildactionplan.Input{
		Profile:           validSPMProfile(),
		MissingConditions: []string{"English level significantly below requirement", "Budget below pathway minimum"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_EvaluatePathways(b *testing.B) {
	// Rules and programs arrive in the payload, so the benchmark measures
	// the engine path without catalog round trips.
	handler := evaluatepathways.NewHandler(&evaluatepathways.Config{
		DefaultTopN: 5,
		Timeout:     10 * time.Second,
	}, nil, nil, nil, logger.NewStructured("error", "json"))

	input := &evaluatepathways.Input{
		Profile: validSPMProfile(),
		Rules: []map[string]interface{}{
			{
				"rule_id":         "R1",
				"active":          true,
				"student_level":   "SPM",
				"interest_tags":   []interface{}{"business"},
				"min_spm_credits": 3,
				"budget_min":      500,
				"budget_max":      2500,
				"english_min":     "Beginner",
				"pathway_title":   "Local Private Diploma in Business",
				"priority_weight": 10,
			},
		},
		UniversityPrograms: []map[string]interface{}{
			{
				"program_code":           "SUN-DIB-001",
				"active":                 true,
				"university_name":        "Sunway University",
				"country":                "Malaysia",
				"program_name":           "Diploma in Business",
				"program_level":          "diploma",
				"field_tags":             []interface{}{"business"},
				"tuition_yearly_min_myr": 18000,
				"tuition_yearly_max_myr": 25000,
			},
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_QueryCatalog(b *testing.B) {
	cfg, err := config.Load()
	if err != nil {
		b.Skipf("config not available: %v", err)
	}
	cfg.Database.Postgres.Host = "localhost"

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		b.Skipf("postgres not available: %v", err)
	}
	defer dbClient.Close()

	handler := querycatalog.NewHandler(&querycatalog.Config{
		Timeout: 5 * time.Second,
	}, dbClient.GetDB(), logger.NewStructured("error", "json"))

	input := &querycatalog.Input{
		QueryType: string(querycatalog.QueryTypeRulesByLevel),
		Level:     "SPM",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
