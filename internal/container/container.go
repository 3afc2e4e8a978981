package container

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/aiquiz"
	"github.com/saulo-duarte/classroom-lms/internal/assignment"
	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/enrollment"
	"github.com/saulo-duarte/classroom-lms/internal/quiz"
	"github.com/saulo-duarte/classroom-lms/internal/schema"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	"github.com/saulo-duarte/classroom-lms/internal/user"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type Container struct {
	UserContainer       *user.UserContainer
	CourseContainer     *course.CourseContainer
	EnrollmentContainer *enrollment.EnrollmentContainer
	AssignmentContainer *assignment.AssignmentContainer
	QuizContainer       *quiz.QuizContainer
	AIQuizContainer     *aiquiz.AIQuizContainer
	AuthHandler         *auth.Handler
	UploadDir           string
}

// Options carries the settings Build needs beyond the database.
type Options struct {
	UploadDir    string
	TokenTTL     time.Duration
	CookieDomain string
	GeminiModel  string
}

// New loads configuration, connects and migrates the database and wires
// every feature.
func New() *Container {
	config.Init()
	auth.Init()

	settings := config.Settings()
	if err := util.SetLocation(settings.Timezone); err != nil {
		config.Logger.WithError(err).Warnf("unknown APP_TIMEZONE %q, using UTC", settings.Timezone)
	}

	ctx := context.Background()
	if err := config.Connect(ctx, settings.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := schema.Migrate(config.DB); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	return Build(ctx, config.DB, Options{
		UploadDir:    settings.UploadDir,
		TokenTTL:     settings.JWTTTL,
		CookieDomain: settings.CookieDomain,
		GeminiModel:  settings.GeminiModel,
	})
}

func Build(ctx context.Context, db *gorm.DB, opts Options) *Container {
	store := storage.NewLocalStore(opts.UploadDir)

	enrollmentRepo := enrollment.NewEnrollmentRepository(db)
	policy := access.NewPolicy(enrollmentRepo)

	userContainer := user.NewUserContainer(db, store, opts.TokenTTL, opts.CookieDomain)
	courseContainer := course.NewCourseContainer(db, store, policy)
	enrollmentContainer := enrollment.NewEnrollmentContainer(db, courseContainer.Service)

	assignmentContainer := assignment.NewAssignmentContainer(
		db,
		courseContainer.Service,
		enrollmentContainer.Repo,
		policy,
		store,
	)
	quizContainer := quiz.NewQuizContainer(
		db,
		courseContainer.Service,
		enrollmentContainer.Repo,
		policy,
	)
	aiQuizContainer := aiquiz.NewAIQuizContainer(ctx, opts.GeminiModel)

	return &Container{
		UserContainer:       userContainer,
		CourseContainer:     courseContainer,
		EnrollmentContainer: enrollmentContainer,
		AssignmentContainer: assignmentContainer,
		QuizContainer:       quizContainer,
		AIQuizContainer:     aiQuizContainer,
		AuthHandler:         auth.NewHandler(opts.CookieDomain),
		UploadDir:           opts.UploadDir,
	}
}
