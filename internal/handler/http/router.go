package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
}

type Handlers struct {
	Employee      EmployeeHandler
	Policy        PolicyHandler
	Holiday       HolidayHandler
	Shift         ShiftHandler
	Attendance    AttendanceHandler
	TimeException TimeExceptionHandler
	Correction    CorrectionHandler
	PayrollConfig PayrollConfigHandler
	Notification  NotificationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot set headers, so the stream also takes ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireEmployeeProfile)
			r.Get("/notifications/stream", h.Notification.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/", h.Employee.List)
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/{id}", h.Employee.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.Create)
					r.Put("/{id}", h.Employee.Update)
				})
			})

			r.Route("/policy-config", func(r chi.Router) {
				r.Route("/overtime", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPolicyView)).Get("/", h.Policy.ListOvertimeRules)
					r.With(middleware.RequirePermission(user.PermissionPolicyView)).Get("/{id}", h.Policy.GetOvertimeRule)
					r.With(middleware.RequirePermission(user.PermissionPolicyView)).Post("/calculate", h.Policy.CalculateOvertime)
					r.With(middleware.RequirePermission(user.PermissionPolicyApprove)).Post("/{id}/approve", h.Policy.ApproveOvertimeRule)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPolicyManage))
						r.Post("/", h.Policy.CreateOvertimeRule)
						r.Put("/{id}", h.Policy.UpdateOvertimeRule)
						r.Delete("/{id}", h.Policy.DeleteOvertimeRule)
					})
				})

				r.Route("/lateness", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPolicyView)).Get("/", h.Policy.ListLatenessRules)
					r.With(middleware.RequirePermission(user.PermissionPolicyView)).Get("/{id}", h.Policy.GetLatenessRule)
					r.With(middleware.RequirePermission(user.PermissionPolicyView)).Post("/calculate", h.Policy.CalculateLateness)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPolicyManage))
						r.Post("/", h.Policy.CreateLatenessRule)
						r.Put("/{id}", h.Policy.UpdateLatenessRule)
						r.Delete("/{id}", h.Policy.DeleteLatenessRule)
					})
				})
			})

			r.Route("/time-management", func(r chi.Router) {
				r.Route("/holidays", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionHolidayView))
						r.Get("/", h.Holiday.List)
						r.Get("/check", h.Holiday.Check)
						r.Get("/{id}", h.Holiday.Get)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
						r.Post("/", h.Holiday.Create)
						r.Post("/bulk", h.Holiday.BulkCreate)
						r.Put("/{id}", h.Holiday.Update)
						r.Delete("/{id}", h.Holiday.Delete)
					})
				})

				r.Route("/shifts", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/", h.Shift.ListShifts)
					r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/{id}", h.Shift.GetShift)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionShiftManage))
						r.Post("/", h.Shift.CreateShift)
						r.Put("/{id}", h.Shift.UpdateShift)
					})
				})

				r.Route("/shift-assignments", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionShiftView))
						r.Get("/", h.Shift.ListAssignments)
						r.Get("/active", h.Shift.GetActiveAssignment)
						r.Get("/{id}", h.Shift.GetAssignment)
					})

					r.With(middleware.RequirePermission(user.PermissionShiftManage)).Post("/", h.Shift.AssignShift)
					r.With(middleware.RequirePermission(user.PermissionShiftManage)).Post("/{id}/cancel", h.Shift.CancelAssignment)
					r.With(middleware.RequirePermission(user.PermissionShiftApprove)).Post("/{id}/approve", h.Shift.ApproveAssignment)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendancePunch)).Post("/punch", h.Attendance.Punch)
					r.With(middleware.RequirePermission(user.PermissionAttendanceImport)).Post("/import", h.Attendance.Import)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn), middleware.RequireEmployeeProfile).Get("/my", h.Attendance.ListMine)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/{id}", h.Attendance.Get)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Post("/{id}/reevaluate", h.Attendance.Reevaluate)
				})

				r.Route("/time-exception", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionTimeExceptionCreate)).Post("/", h.TimeException.Create)
					r.With(middleware.RequirePermission(user.PermissionTimeExceptionViewAll)).Get("/", h.TimeException.List)
					r.With(middleware.RequirePermission(user.PermissionTimeExceptionViewOwn), middleware.RequireEmployeeProfile).Get("/my", h.TimeException.ListMine)
					r.With(middleware.RequirePermission(user.PermissionTimeExceptionViewOwn)).Get("/summary", h.TimeException.Summary)
					r.With(middleware.RequirePermission(user.PermissionTimeExceptionEscalate)).Post("/auto-escalate", h.TimeException.AutoEscalate)

					r.Route("/{id}", func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionTimeExceptionViewOwn))
						r.Get("/", h.TimeException.Get)
						r.Put("/", h.TimeException.Update)
						r.Post("/assign", h.TimeException.Assign)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequirePermission(user.PermissionTimeExceptionReview))
							r.Post("/approve", h.TimeException.Approve)
							r.Post("/reject", h.TimeException.Reject)
							r.Post("/escalate", h.TimeException.Escalate)
							r.Post("/resolve", h.TimeException.Resolve)
						})
					})
				})

				r.Route("/correction-requests", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionCorrectionCreate)).Post("/", h.Correction.Submit)
					r.With(middleware.RequirePermission(user.PermissionCorrectionViewAll)).Get("/", h.Correction.List)
					r.With(middleware.RequirePermission(user.PermissionCorrectionViewOwn), middleware.RequireEmployeeProfile).Get("/my", h.Correction.ListMine)
					r.With(middleware.RequirePermission(user.PermissionTimeExceptionEscalate)).Post("/auto-escalate", h.Correction.AutoEscalate)

					r.Route("/{id}", func(r chi.Router) {
						r.With(middleware.RequirePermission(user.PermissionCorrectionViewOwn)).Get("/", h.Correction.Get)
						r.With(middleware.RequirePermission(user.PermissionCorrectionCreate)).Post("/cancel", h.Correction.Cancel)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequirePermission(user.PermissionCorrectionReview))
							r.Post("/review", h.Correction.StartReview)
							r.Post("/approve", h.Correction.Approve)
							r.Post("/reject", h.Correction.Reject)
							r.Post("/escalate", h.Correction.Escalate)
						})
					})
				})
			})

			r.Route("/payroll-configuration", func(r chi.Router) {
				r.Route("/pay-grades", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollConfigView)).Get("/", h.PayrollConfig.ListPayGrades)
					r.With(middleware.RequirePermission(user.PermissionPayrollConfigView)).Get("/{id}", h.PayrollConfig.GetPayGrade)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRoles(user.RolePayrollSpecialist, user.RoleSystemAdmin))
						r.Post("/", h.PayrollConfig.CreatePayGrade)
						r.Put("/{id}", h.PayrollConfig.UpdatePayGrade)
						r.Delete("/{id}", h.PayrollConfig.DeletePayGrade)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRoles(user.RolePayrollManager, user.RoleSystemAdmin))
						r.Post("/{id}/approve", h.PayrollConfig.ApprovePayGrade)
						r.Post("/{id}/reject", h.PayrollConfig.RejectPayGrade)
					})
				})

				r.Route("/allowances", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollConfigView)).Get("/", h.PayrollConfig.ListAllowances)
					r.With(middleware.RequirePermission(user.PermissionPayrollConfigView)).Get("/{id}", h.PayrollConfig.GetAllowance)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRoles(user.RolePayrollSpecialist, user.RoleSystemAdmin))
						r.Post("/", h.PayrollConfig.CreateAllowance)
						r.Put("/{id}", h.PayrollConfig.UpdateAllowance)
						r.Delete("/{id}", h.PayrollConfig.DeleteAllowance)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRoles(user.RolePayrollManager, user.RoleSystemAdmin))
						r.Post("/{id}/approve", h.PayrollConfig.ApproveAllowance)
						r.Post("/{id}/reject", h.PayrollConfig.RejectAllowance)
					})
				})

				r.Route("/tax-rules", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollConfigView)).Get("/", h.PayrollConfig.ListTaxRules)
					r.With(middleware.RequirePermission(user.PermissionPayrollConfigView)).Get("/{id}", h.PayrollConfig.GetTaxRule)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRoles(user.RolePayrollSpecialist, user.RoleSystemAdmin))
						r.Post("/", h.PayrollConfig.CreateTaxRule)
						r.Put("/{id}", h.PayrollConfig.UpdateTaxRule)
						r.Delete("/{id}", h.PayrollConfig.DeleteTaxRule)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRoles(user.RolePayrollManager, user.RoleSystemAdmin))
						r.Post("/{id}/approve", h.PayrollConfig.ApproveTaxRule)
						r.Post("/{id}/reject", h.PayrollConfig.RejectTaxRule)
					})
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(middleware.RequireEmployeeProfile)
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Put("/read", h.Notification.MarkAsRead)
				r.Put("/read-all", h.Notification.MarkAllAsRead)
				r.Put("/{id}/read", h.Notification.MarkOneAsRead)
				r.Delete("/{id}", h.Notification.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	return r
}
