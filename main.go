package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
	alertmemory "ecocore-cloud/internal/alerts/infrastructure/memory"
	alertpostgres "ecocore-cloud/internal/alerts/infrastructure/postgres"
	alertnotify "ecocore-cloud/internal/alerts/notify"
	apihttp "ecocore-cloud/internal/api/http"
	"ecocore-cloud/internal/auth"
	controlapp "ecocore-cloud/internal/control/application"
	controlhttp "ecocore-cloud/internal/control/interfaces/http"
	detectionapp "ecocore-cloud/internal/detection/application"
	detection "ecocore-cloud/internal/detection/domain"
	"ecocore-cloud/internal/eventbus"
	"ecocore-cloud/internal/observability/metrics"
	"ecocore-cloud/internal/prediction"
	"ecocore-cloud/internal/pricing"
	rooms "ecocore-cloud/internal/rooms/domain"
	roommemory "ecocore-cloud/internal/rooms/infrastructure/memory"
	roomredis "ecocore-cloud/internal/rooms/infrastructure/redis"
	schedulingapp "ecocore-cloud/internal/scheduling/application"
	scheduling "ecocore-cloud/internal/scheduling/domain"
	schedulememory "ecocore-cloud/internal/scheduling/infrastructure/memory"
	schedulepostgres "ecocore-cloud/internal/scheduling/infrastructure/postgres"
	ingesthttp "ecocore-cloud/internal/telemetry/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type config struct {
	HTTPAddr       string
	DatabaseURL    string
	RedisAddr      string
	ModelBaseURL   string
	DetectionMode  string
	TuningPath     string
	PeakRate       float64
	OffPeakRate    float64
	MonthlyBudget  float64
	WebhookURL     string
	NotifyTemplate string
	NotifyCooldown time.Duration
	NotifyDedupe   time.Duration
	JWTSecret      string
	SchedulerOn    bool
	PumpCron       string
	BatteryCron    string
}

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}

	metrics.Init()

	tariff, err := pricing.NewTariff(cfg.PeakRate, cfg.OffPeakRate)
	if err != nil {
		logger.Fatalf("tariff error: %v", err)
	}

	tuning, err := detection.LoadTuning(cfg.TuningPath)
	if err != nil {
		logger.Fatalf("detection tuning error: %v", err)
	}

	var predictor prediction.DemandPredictor
	mode := detection.ModeStatic
	if cfg.ModelBaseURL != "" && cfg.DetectionMode != string(detection.ModeStatic) {
		remote, err := prediction.NewRemoteModel(cfg.ModelBaseURL)
		if err != nil {
			logger.Fatalf("model client error: %v", err)
		}
		predictor = remote
		mode = detection.ModeDynamic
	}
	detector := detection.NewDetector(mode, tuning, tariff.Peak())
	logger.Printf("detection mode: %s", detector.Mode())

	var alertLog alerts.Log
	var pumpLog, batteryLog scheduling.DecisionLog
	if db != nil {
		if err := alertpostgres.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatalf("alert schema error: %v", err)
		}
		if err := schedulepostgres.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatalf("schedule schema error: %v", err)
		}
		alertLog = alertpostgres.NewAlertLog(db)
		pumpLog, err = schedulepostgres.NewDecisionLog(db, scheduling.KindPump)
		if err != nil {
			logger.Fatalf("pump log error: %v", err)
		}
		batteryLog, err = schedulepostgres.NewDecisionLog(db, scheduling.KindBattery)
		if err != nil {
			logger.Fatalf("battery log error: %v", err)
		}
	} else {
		logger.Printf("no DATABASE_URL, using in-memory logs")
		alertLog = alertmemory.NewAlertLog()
		pumpLog = schedulememory.NewDecisionLog()
		batteryLog = schedulememory.NewDecisionLog()
	}

	var roomStore rooms.Store
	if cfg.RedisAddr != "" {
		redisStore, err := roomredis.NewStateStore(cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("room redis error: %v", err)
		}
		defer redisStore.Close()
		roomStore = redisStore
	} else {
		roomStore = roommemory.NewStateStore()
	}

	bus := eventbus.NewInMemoryBus()
	if cfg.WebhookURL != "" {
		channel, err := alertnotify.NewWebhookChannel(cfg.WebhookURL)
		if err != nil {
			logger.Fatalf("webhook channel error: %v", err)
		}
		template, err := alertnotify.NewTemplate(cfg.NotifyTemplate)
		if err != nil {
			logger.Fatalf("notify template error: %v", err)
		}
		notifier, err := alertnotify.NewNotifier(
			channel,
			template,
			alertnotify.WithCooldown(cfg.NotifyCooldown),
			alertnotify.WithDedupeWindow(cfg.NotifyDedupe),
		)
		if err != nil {
			logger.Fatalf("notifier error: %v", err)
		}
		bus.Subscribe(eventbus.EventTypeOf[detectionapp.AlertRaised](), func(ctx context.Context, event any) error {
			raised, ok := event.(detectionapp.AlertRaised)
			if !ok {
				return nil
			}
			notifier.Notify(ctx, raised.Alert)
			return nil
		})
	}

	detectService, err := detectionapp.NewService(detector, predictor, alertLog, roomStore, detectionapp.WithEventBus(bus))
	if err != nil {
		logger.Fatalf("detection service error: %v", err)
	}
	overrideService, err := controlapp.NewService(alertLog, roomStore, controlapp.WithEventBus(bus))
	if err != nil {
		logger.Fatalf("override service error: %v", err)
	}
	optimizer, err := schedulingapp.NewOptimizer(
		predictor,
		tariff,
		pumpLog,
		batteryLog,
		schedulingapp.WithMonthlyBudget(cfg.MonthlyBudget),
	)
	if err != nil {
		logger.Fatalf("optimizer error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SchedulerOn {
		scheduler := schedulingapp.NewScheduler(optimizer, logger)
		if err := scheduler.Start(ctx, cfg.PumpCron, cfg.BatteryCron); err != nil {
			logger.Fatalf("scheduler error: %v", err)
		}
	}

	ingestHandler, err := ingesthttp.NewIngestHandler(detectService, logger)
	if err != nil {
		logger.Fatalf("ingest handler error: %v", err)
	}
	overrideHandler, err := controlhttp.NewOverrideHandler(overrideService, logger)
	if err != nil {
		logger.Fatalf("override handler error: %v", err)
	}
	exportHandler := apihttp.NewExportHandler(alertLog, optimizer)

	mux := http.NewServeMux()
	mux.Handle("/sensor/ingest", ingestHandler)
	mux.Handle("/api/control/override", overrideHandler)
	mux.Handle("/api/pump/optimize", apihttp.NewOptimizeHandler(optimizer, "pump"))
	mux.Handle("/api/battery/optimize", apihttp.NewOptimizeHandler(optimizer, "battery"))
	mux.Handle("/api/history/alerts", apihttp.NewAlertHistoryHandler(alertLog))
	mux.Handle("/api/history/pumping", apihttp.NewScheduleHistoryHandler(optimizer, "pump"))
	mux.Handle("/api/history/battery", apihttp.NewScheduleHistoryHandler(optimizer, "battery"))
	mux.Handle("/api/rooms/status", apihttp.NewRoomStatusHandler(roomStore))
	mux.Handle("/api/budget/forecast", apihttp.NewBudgetForecastHandler(optimizer))
	mux.HandleFunc("/api/exports/alerts.pdf", exportHandler.ServeAlertsPDF)
	mux.HandleFunc("/api/exports/alerts.xlsx", exportHandler.ServeAlertsXLSX)
	mux.HandleFunc("/api/exports/schedules.xlsx", exportHandler.ServeSchedulesXLSX)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var handler http.Handler = mux
	if cfg.JWTSecret != "" {
		policy := auth.NewDefaultPolicy(
			[]string{"/sensor/ingest", "/api/control/override", "/metrics", "/healthz"},
			nil,
		)
		handler = auth.NewMiddleware([]byte(cfg.JWTSecret), policy).Wrap(handler)
	} else {
		logger.Printf("AUTH_JWT_SECRET not set, dashboard API is unauthenticated")
	}
	handler = loggingMiddleware(handler, logger)

	logger.Printf("listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Fatalf("http server error: %v", err)
	}
}

func loadConfig() config {
	return config{
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:    getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		RedisAddr:      getenvDefault("REDIS_ADDR", ""),
		ModelBaseURL:   getenvDefault("MODEL_BASE_URL", ""),
		DetectionMode:  getenvDefault("DETECTION_MODE", ""),
		TuningPath:     getenvDefault("DETECTION_TUNING", ""),
		PeakRate:       getenvFloatDefault("PEAK_RATE", pricing.DefaultPeakRate),
		OffPeakRate:    getenvFloatDefault("OFF_PEAK_RATE", pricing.DefaultOffPeakRate),
		MonthlyBudget:  getenvFloatDefault("MONTHLY_BUDGET", 5000),
		WebhookURL:     getenvDefault("ALERT_WEBHOOK_URL", ""),
		NotifyTemplate: getenvDefault("ALERT_NOTIFY_TEMPLATE", ""),
		NotifyCooldown: getenvDuration("ALERT_NOTIFY_COOLDOWN", 0),
		NotifyDedupe:   getenvDuration("ALERT_NOTIFY_DEDUP_WINDOW", 0),
		JWTSecret:      getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		SchedulerOn:    getenvBoolDefault("SCHEDULER_ENABLED", true),
		PumpCron:       getenvDefault("PUMP_CRON", ""),
		BatteryCron:    getenvDefault("BATTERY_CRON", ""),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
