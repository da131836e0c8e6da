package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/logger"
)

// token issues an access token signed with the API's secret, for smoke tests
// and operator scripts.
func main() {
	userID := flag.String("user", "", "user id placed in the user_id claim (required)")
	employeeID := flag.String("employee", "", "employee id for self-service routes")
	role := flag.String("role", string(user.RoleEmployee), "role claim")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.App.Env, cfg.App.LogLevel))

	actor := user.Actor{UserID: strings.TrimSpace(*userID), Role: user.Role(strings.ToUpper(*role))}
	if actor.UserID == "" {
		slog.Error("-user is required")
		os.Exit(2)
	}
	if !actor.Role.IsValid() {
		slog.Error("unknown role", "role", *role)
		os.Exit(2)
	}
	if id := strings.TrimSpace(*employeeID); id != "" {
		actor.EmployeeID = &id
	}

	svc, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		slog.Error("failed to initialize jwt service", "error", err)
		os.Exit(1)
	}
	token, _, err := svc.GenerateAccessToken(actor)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
