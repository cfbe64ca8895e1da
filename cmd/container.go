// container.go
package main

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/convocatoria/pkg/config"
	"github.com/Abraxas-365/convocatoria/pkg/fsx"
	"github.com/Abraxas-365/convocatoria/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/convocatoria/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth"
	"github.com/Abraxas-365/convocatoria/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/convocatoria/pkg/logx"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign/campaignapi"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign/campaigninfra"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/campaign/campaignsrv"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/catalog/catalogapi"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/catalog/cataloginfra"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal/proposalapi"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal/proposalinfra"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/proposal/proposalsrv"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/report/reportapi"
	"github.com/Abraxas-365/convocatoria/pkg/recruitment/report/reportinfra"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Services
	TokenService    *auth.JWTService
	CampaignService *campaignsrv.CampaignService
	ProposalService *proposalsrv.ProposalService

	// API Handlers
	AuthHandlers     *auth.AuthHandlers
	CatalogHandlers  *catalogapi.CatalogHandlers
	CampaignHandlers *campaignapi.CampaignHandlers
	ProposalHandlers *proposalapi.ProposalHandlers
	ReportHandlers   *reportapi.ReportHandlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Redis Connection (idempotency keys and role cache)
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v", err)
	}
	logx.Info("✅ Redis connected")

	// 3. File Storage (Local or S3)
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		cfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(c.Config.Storage.S3Region))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(cfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, c.Config.Storage.S3Bucket, c.Config.Storage.S3Prefix)
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)", c.Config.Storage.S3Bucket, c.Config.Storage.S3Region)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.LocalDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Identity boundary ---
	accountRepo := authinfra.NewPostgresAccountRepository(c.DB)
	unitResolver := authinfra.NewPostgresValidatorUnitResolver(c.DB)

	// Role loading: Postgres behind retry and a Redis cache. El reintento
	// vive aquí, nunca en el motor de flujo.
	var roleLoader auth.RoleLoader = authinfra.NewPostgresRoleLoader(c.DB)
	roleLoader = auth.NewRetryingRoleLoader(roleLoader, c.Config.Auth.Roles)
	roleLoader = auth.NewCachedRoleLoader(roleLoader, c.Redis, c.Config.Auth.Roles.CacheTTL)

	passwordSvc := authinfra.NewBcryptPasswordService(c.Config.Auth.Password.BcryptCost)
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)

	c.AuthHandlers = auth.NewAuthHandlers(accountRepo, roleLoader, passwordSvc, c.TokenService)
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)

	// --- Reference catalogs ---
	catalogRepo := cataloginfra.NewPostgresCatalog(c.DB)

	// --- Campaign workflow ---
	campaignRepo := campaigninfra.NewPostgresCampaignRepository(c.DB)
	positionRepo := campaigninfra.NewPostgresPositionRepository(c.DB)
	facilityRepo := campaigninfra.NewPostgresFacilityRepository(c.DB)
	validatorRepo := campaigninfra.NewPostgresValidatorRepository(c.DB)

	c.CampaignService = campaignsrv.NewCampaignService(
		campaignRepo,
		positionRepo,
		facilityRepo,
		validatorRepo,
		catalogRepo,
		catalogRepo,
		catalogRepo,
	)

	// --- Proposal intake and validation consensus ---
	proposalRepo := proposalinfra.NewPostgresProposalRepository(c.DB)
	validationRepo := proposalinfra.NewPostgresValidationRepository(c.DB)
	fileRepo := proposalinfra.NewPostgresFileRepository(c.DB)
	submissionStore := proposalinfra.NewPostgresSubmissionStore(c.DB)
	idempotencyStore := proposalinfra.NewRedisIdempotencyStore(c.Redis)

	c.ProposalService = proposalsrv.NewProposalService(
		proposalRepo,
		validationRepo,
		fileRepo,
		submissionStore,
		idempotencyStore,
		campaignRepo,
		positionRepo,
		facilityRepo,
		validatorRepo,
		unitResolver,
		c.FileSystem,
		c.Config.Storage,
	)

	// --- Dashboards ---
	reportReader := reportinfra.NewPostgresReportReader(c.DB)

	// --- API Handlers ---
	c.CatalogHandlers = catalogapi.NewCatalogHandlers(catalogRepo, catalogRepo, catalogRepo)
	c.CampaignHandlers = campaignapi.NewCampaignHandlers(c.CampaignService)
	c.ProposalHandlers = proposalapi.NewProposalHandlers(c.ProposalService)
	c.ReportHandlers = reportapi.NewReportHandlers(reportReader)

	logx.Info("✅ All services and handlers initialized")
}

// Cleanup closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	// Close database connection
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	// Close Redis connection
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
