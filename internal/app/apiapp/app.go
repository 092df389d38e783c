package apiapp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Anayo007/linkup/internal/config"
	"github.com/Anayo007/linkup/internal/domain/rules"
	"github.com/Anayo007/linkup/internal/infra/pusher"
	s3infra "github.com/Anayo007/linkup/internal/infra/s3"
	"github.com/Anayo007/linkup/internal/jobs/retention"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
	redrepo "github.com/Anayo007/linkup/internal/repo/redis"
	authsvc "github.com/Anayo007/linkup/internal/services/auth"
	discoverysvc "github.com/Anayo007/linkup/internal/services/discovery"
	likessvc "github.com/Anayo007/linkup/internal/services/likes"
	matchessvc "github.com/Anayo007/linkup/internal/services/matches"
	messagessvc "github.com/Anayo007/linkup/internal/services/messages"
	modsvc "github.com/Anayo007/linkup/internal/services/moderation"
	presencesvc "github.com/Anayo007/linkup/internal/services/presence"
	profilesvc "github.com/Anayo007/linkup/internal/services/profiles"
	promptsvc "github.com/Anayo007/linkup/internal/services/prompts"
	settingssvc "github.com/Anayo007/linkup/internal/services/settings"
	skipssvc "github.com/Anayo007/linkup/internal/services/skips"
	userssvc "github.com/Anayo007/linkup/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	retention  *retention.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, errors.New("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, redrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("redis init failed, presence degrades to last-active", zap.Error(err))
	} else {
		redisClient = c
	}

	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	promptRepo := pgrepo.NewPromptRepo(pool)
	discoveryRepo := pgrepo.NewDiscoveryRepo(pool)
	likeRepo := pgrepo.NewLikeRepo(pool)
	skipRepo := pgrepo.NewSkipRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	blockRepo := pgrepo.NewBlockRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	quotaRepo := pgrepo.NewQuotaRepo(pool)
	tierRepo := pgrepo.NewTierRepo(pool)
	settingsRepo := pgrepo.NewSettingsRepo(pool)
	presenceRepo := redrepo.NewPresenceRepo(redisClient)

	var relay pusher.Relay
	if client, err := pusher.NewClient(pusher.Config{
		AppID:   cfg.Pusher.AppID,
		Key:     cfg.Pusher.Key,
		Secret:  cfg.Pusher.Secret,
		Cluster: cfg.Pusher.Cluster,
	}); err != nil {
		log.Warn("pusher init failed, realtime events disabled", zap.Error(err))
		relay = pusher.NopRelay{}
	} else {
		relay = client
	}

	var photoStorage *s3infra.PhotoStorage
	if storage, err := s3infra.NewPhotoStorage(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, photo upload disabled", zap.Error(err))
	} else {
		photoStorage = storage
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(authsvc.Dependencies{
		JWT:      jwtManager,
		Users:    userRepo,
		Settings: settingsRepo,
	})
	profileService := profilesvc.NewService(profilesvc.Dependencies{
		Pool:     pool,
		Profiles: profileRepo,
		Photos:   photoRepo,
		Prompts:  promptRepo,
		Storage:  photoStorage,
		Log:      log,
	})
	promptService := promptsvc.NewService(promptRepo)
	discoveryService := discoverysvc.NewService(discoverysvc.Dependencies{
		Candidates: discoveryRepo,
		Photos:     photoRepo,
		Prompts:    promptRepo,
	}, discoverysvc.Config{
		BatchSize:         cfg.Discovery.BatchSize,
		MaxBatchSize:      cfg.Discovery.MaxBatchSize,
		DefaultAgeMin:     cfg.Discovery.DefaultAgeMin,
		DefaultAgeMax:     cfg.Discovery.DefaultAgeMax,
		DefaultDistanceKM: cfg.Discovery.DefaultDistanceKM,
		MaxDistanceKM:     cfg.Discovery.MaxDistanceKM,
	})
	likeService := likessvc.NewService(likessvc.Dependencies{
		Pool:     pool,
		Likes:    likeRepo,
		Matches:  matchRepo,
		Quotas:   quotaRepo,
		Blocks:   blockRepo,
		Tiers:    tierRepo,
		Users:    userRepo,
		Profiles: profileRepo,
		Photos:   photoRepo,
		Relay:    relay,
		Log:      log,
	}, likessvc.Config{
		FreeLikesPerDay: rules.FreeLikesPerDay,
	})
	skipService := skipssvc.NewService(skipssvc.Dependencies{
		Pool:   pool,
		Skips:  skipRepo,
		Quotas: quotaRepo,
		Tiers:  tierRepo,
		Users:  userRepo,
	}, skipssvc.Config{
		FreeUndosPerDay: rules.FreeUndosPerDay,
	})
	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Pool:     pool,
		Matches:  matchRepo,
		Blocks:   blockRepo,
		Reports:  reportRepo,
		Presence: presenceRepo,
		Log:      log,
	})
	messageService := messagessvc.NewService(messagessvc.Dependencies{
		Pool:     pool,
		Matches:  matchRepo,
		Messages: messageRepo,
		Blocks:   blockRepo,
		Relay:    relay,
		Log:      log,
	})
	presenceService := presencesvc.NewService(presencesvc.Dependencies{
		Online:   presenceRepo,
		Activity: userRepo,
		Log:      log,
	}, presencesvc.Config{
		OnlineWindow: cfg.Presence.OnlineWindow,
	})
	moderationService := modsvc.NewService(modsvc.Dependencies{
		Pool:    pool,
		Reports: reportRepo,
		Users:   userRepo,
		Log:     log,
	})
	userService := userssvc.NewService(userssvc.Dependencies{
		Users: userRepo,
		Tiers: tierRepo,
		Log:   log,
	})
	settingsService := settingssvc.NewService(settingssvc.Dependencies{
		Settings: settingsRepo,
		Tiers:    tierRepo,
	})

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		ProfileService:    profileService,
		PromptService:     promptService,
		DiscoveryService:  discoveryService,
		LikeService:       likeService,
		SkipService:       skipService,
		MatchService:      matchService,
		MessageService:    messageService,
		PresenceService:   presenceService,
		ModerationService: moderationService,
		UserService:       userService,
		SettingsService:   settingsService,
		Logger:            log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	var retentionJob *retention.Job
	if pool != nil {
		retentionJob = retention.New(skipRepo, quotaRepo, 90*24*time.Hour, log)
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		retention:  retentionJob,
		httpRouter: r,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.retention != nil {
		go func() {
			if err := a.retention.RunEvery(ctx, 6*time.Hour); err != nil {
				a.logger.Error("retention job stopped", zap.Error(err))
			}
		}()
	}

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
