// Package handler exposes the service over HTTP.
package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"
	"github.com/jueunk617/subscription-keep-or-cut/internal/middleware"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
	"github.com/jueunk617/subscription-keep-or-cut/internal/service"
	"github.com/jueunk617/subscription-keep-or-cut/internal/validation"

	"github.com/labstack/echo/v4"
)

// Service is what the handlers call into. *service.Service implements it.
type Service interface {
	Categories(ctx context.Context) ([]model.Category, error)
	CreateSubscription(ctx context.Context, userID string, in validation.SubscriptionInput) (*model.Subscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error)
	DeleteSubscription(ctx context.Context, userID string, id int64) error
	RecordUsage(ctx context.Context, userID string, in service.UsageInput) (*model.UsageRecord, error)
	Dashboard(ctx context.Context, userID string, year, month int) (*model.Dashboard, error)
}

type Handler struct {
	svc   Service
	login *CognitoLogin
}

// New creates a Handler. login may be nil, in which case no login route is registered.
func New(svc Service, login *CognitoLogin) *Handler {
	return &Handler{svc: svc, login: login}
}

// Register installs the error handler, the health check and the /api/v1
// routes on e. auth resolves the requesting user for every API route.
func (h *Handler) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api/v1")
	if h.login != nil {
		api.POST("/auth/login", h.Login)
	}

	protected := api.Group("", auth)
	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/subscriptions", h.ListSubscriptions)
	protected.POST("/subscriptions", h.CreateSubscription)
	protected.DELETE("/subscriptions/:id", h.DeleteSubscription)
	protected.POST("/usages", h.RecordUsage)
	protected.GET("/categories", h.Categories)
}

type CreateSubscriptionRequest struct {
	CategoryID    int64                    `json:"categoryId"`
	Name          string                   `json:"name"`
	TotalCost     int64                    `json:"totalCost"`
	UserShareCost int64                    `json:"userShareCost"`
	BillingCycle  model.BillingCycle       `json:"billingCycle"`
	Status        model.SubscriptionStatus `json:"status"`
}

type RecordUsageRequest struct {
	SubscriptionID int64  `json:"subscriptionId"`
	Date           string `json:"date"`
	UsageValue     int    `json:"usageValue"`
}

type CategoryResponse struct {
	model.Category
	Label     string `json:"label"`
	UnitLabel string `json:"unitLabel"`
}

type SubscriptionResponse struct {
	model.Subscription
	BillingCycleLabel string `json:"billingCycleLabel"`
}

func newSubscriptionResponse(sub model.Subscription) SubscriptionResponse {
	return SubscriptionResponse{Subscription: sub, BillingCycleLabel: sub.BillingCycle.Label()}
}

type ClassificationResponse struct {
	model.Classification
	StatusLabel       string `json:"statusLabel"`
	StatusDescription string `json:"statusDescription"`
	StatusColor       string `json:"statusColor"`
}

type DashboardResponse struct {
	TotalMonthlyCost         int64                    `json:"totalMonthlyCost"`
	TotalAnnualWasteEstimate int64                    `json:"totalAnnualWasteEstimate"`
	Subscriptions            []ClassificationResponse `json:"subscriptions"`
}

func newDashboardResponse(d *model.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		TotalMonthlyCost:         d.TotalMonthlyCost,
		TotalAnnualWasteEstimate: d.TotalAnnualWasteEstimate,
		Subscriptions:            make([]ClassificationResponse, 0, len(d.Subscriptions)),
	}
	for _, c := range d.Subscriptions {
		resp.Subscriptions = append(resp.Subscriptions, ClassificationResponse{
			Classification:    c,
			StatusLabel:       c.Status.Label(),
			StatusDescription: c.Status.Description(),
			StatusColor:       c.Status.Color(),
		})
	}
	return resp
}

func (h *Handler) Dashboard(c echo.Context) error {
	var year, month int
	errs := echo.QueryParamsBinder(c).
		FailFast(false).
		MustInt("year", &year).
		MustInt("month", &month).
		BindErrors()
	if len(errs) > 0 {
		return apperr.Validation(bindingFieldErrors(errs)...)
	}

	d, err := h.svc.Dashboard(c.Request().Context(), middleware.UserID(c), year, month)
	if err != nil {
		return err
	}
	return ok(c, fmt.Sprintf("%d년 %d월 대시보드 조회 성공", year, month), newDashboardResponse(d))
}

func (h *Handler) ListSubscriptions(c echo.Context) error {
	subs, err := h.svc.ListSubscriptions(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	resp := make([]SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, newSubscriptionResponse(sub))
	}
	return ok(c, "구독 목록 조회 성공", resp)
}

func (h *Handler) CreateSubscription(c echo.Context) error {
	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.BadRequest)
	}

	userID := middleware.UserID(c)
	sub, err := h.svc.CreateSubscription(c.Request().Context(), userID, validation.SubscriptionInput{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		TotalCost:     req.TotalCost,
		UserShareCost: req.UserShareCost,
		BillingCycle:  req.BillingCycle,
		Status:        req.Status,
	})
	if err != nil {
		return err
	}
	return ok(c, "구독이 성공적으로 등록되었습니다.", newSubscriptionResponse(*sub))
}

func (h *Handler) DeleteSubscription(c echo.Context) error {
	var id int64
	if errs := echo.PathParamsBinder(c).MustInt64("id", &id).BindErrors(); len(errs) > 0 {
		return apperr.Validation(bindingFieldErrors(errs)...)
	}

	if err := h.svc.DeleteSubscription(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return err
	}
	return ok(c, fmt.Sprintf("%d번 구독이 삭제되었습니다.", id), nil)
}

func (h *Handler) RecordUsage(c echo.Context) error {
	var req RecordUsageRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.BadRequest)
	}

	rec, err := h.svc.RecordUsage(c.Request().Context(), middleware.UserID(c), service.UsageInput{
		SubscriptionID: req.SubscriptionID,
		Date:           req.Date,
		UsageValue:     req.UsageValue,
	})
	if err != nil {
		return err
	}
	return ok(c, "사용량이 기록되었으며 효율 분석이 완료되었습니다.", rec)
}

func (h *Handler) Categories(c echo.Context) error {
	categories, err := h.svc.Categories(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, CategoryResponse{
			Category:  cat,
			Label:     model.CategoryLabel(cat.Name),
			UnitLabel: cat.Unit.Label(),
		})
	}
	return ok(c, "카테고리 목록 조회 성공", resp)
}

func bindingFieldErrors(errs []error) []apperr.FieldError {
	fields := make([]apperr.FieldError, 0, len(errs))
	for _, err := range errs {
		be, isBinding := err.(*echo.BindingError)
		if !isBinding {
			log.Printf("Unexpected binder error: %v", err)
			continue
		}
		fields = append(fields, apperr.FieldError{Field: be.Field, Message: "숫자 값이 필요합니다"})
	}
	return fields
}
