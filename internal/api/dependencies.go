package api

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"devcircle/rollcall/internal/common"
	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/db/repositories"
	"devcircle/rollcall/internal/discord"
	"devcircle/rollcall/internal/metrics"
	"devcircle/rollcall/internal/services"
)

type Repositories struct {
	Users        *repositories.UserRepository
	Tags         *repositories.TagRepository
	UserTags     *repositories.UserTagRepository
	Events       *repositories.EventRepository
	Participants *repositories.EventParticipantRepository
	VoiceAccess  *repositories.EventVoiceAccessRepository
	AccessStatus *repositories.AccessStatusRepository
}

type Services struct {
	Cache       common.CacheInterface
	Directory   discord.DirectoryService
	Eligibility *services.EligibilityService
	Access      *services.EventAccessService
	RoleSync    *services.RoleSyncService
	Events      *services.EventService
	Tags        *services.TagService
	Users       *services.UserService
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires the full graph: repositories over the injected DB
// handles, then services over repositories. Lifecycle of the handles belongs
// to the caller (cmd/server).
func InitDependencies(
	cfg *config.Config,
	gormDB *gorm.DB,
	sqlxDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {

	repos := &Repositories{
		Users:        repositories.NewUserRepository(gormDB),
		Tags:         repositories.NewTagRepository(gormDB),
		UserTags:     repositories.NewUserTagRepository(gormDB),
		Events:       repositories.NewEventRepository(gormDB),
		Participants: repositories.NewEventParticipantRepository(gormDB),
		VoiceAccess:  repositories.NewEventVoiceAccessRepository(gormDB),
		AccessStatus: repositories.NewAccessStatusRepository(sqlxDB),
	}

	cacheSvc := common.NewCacheService(time.Minute, 10*time.Minute)
	directory := discord.NewClient(cfg.Discord, cacheSvc)
	limiter := common.NewRedisRequestLimiter(redisClient, cfg.Access.RequestLimit, cfg.Access.RequestWindow)

	eligibilitySvc := services.NewEligibilityService(repos.Events, repos.UserTags, repos.Participants)
	accessSvc := services.NewEventAccessService(
		repos.Events,
		repos.Participants,
		repos.VoiceAccess,
		repos.Users,
		repos.AccessStatus,
		eligibilitySvc,
		directory,
		limiter,
		metricsReg,
	)
	roleSyncSvc := services.NewRoleSyncService(repos.Users, directory, metricsReg)

	svcs := &Services{
		Cache:       cacheSvc,
		Directory:   directory,
		Eligibility: eligibilitySvc,
		Access:      accessSvc,
		RoleSync:    roleSyncSvc,
		Events:      services.NewEventService(repos.Events, repos.Tags, directory),
		Tags:        services.NewTagService(repos.Tags, repos.UserTags),
		Users:       services.NewUserService(repos.Users, roleSyncSvc, directory),
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
	}, nil
}
