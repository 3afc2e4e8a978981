package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/container"
	"github.com/saulo-duarte/classroom-lms/internal/router"
)

var adapter *httpadapter.HandlerAdapterV2

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	c := container.New()

	h := router.New(router.RouterConfig{
		UserHandler:       c.UserContainer.Handler,
		AuthHandler:       c.AuthHandler,
		CourseHandler:     c.CourseContainer.Handler,
		EnrollmentHandler: c.EnrollmentContainer.Handler,
		AssignmentHandler: c.AssignmentContainer.Handler,
		QuizHandler:       c.QuizContainer.Handler,
		AIQuizHandler:     c.AIQuizContainer.Handler,
		UploadDir:         c.UploadDir,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter = httpadapter.NewV2(h)
		lambda.Start(handler)
		return
	}

	addr := ":" + config.Settings().Port
	config.Logger.Infof("Listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil {
		config.Logger.WithError(err).Fatal("server stopped")
	}
}
