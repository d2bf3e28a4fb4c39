// Package http is the inbound HTTP adapter. It exposes the ordering use cases
// as a JSON API on Echo, with HTTP basic auth mapping onto customer accounts
// and the manager credential pair.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"foodorder/internal/core/application/ordering"
	"foodorder/internal/core/domain/model/customer"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/core/domain/services"
	"foodorder/internal/pkg/errs"
)

// customerContextKey stores the authenticated customer on the echo context.
const customerContextKey = "authenticated_customer"

// Server wires the ordering service to the HTTP routes.
type Server struct {
	svc     *ordering.Service
	reports services.ReportGenerator
	now     func() time.Time
}

// NewServer creates a Server over the given ordering service. The time source
// is used for customer-facing countdown strings.
func NewServer(svc *ordering.Service, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{
		svc:     svc,
		reports: services.NewReportGenerator(svc.Catalog()),
		now:     now,
	}
}

// RegisterRoutes mounts all routes on the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/api/v1/menu", s.GetMenu)
	e.POST("/api/v1/customers", s.RegisterCustomer)

	cust := e.Group("/api/v1", middleware.BasicAuth(s.authenticateCustomer))
	cust.GET("/orders", s.GetOrders)
	cust.POST("/orders", s.PlaceOrder)
	cust.GET("/orders/:id", s.GetOrderDetails)
	cust.POST("/orders/:id/cancel", s.CancelOrder)
	cust.POST("/orders/:id/rating", s.RateOrder)
	cust.POST("/orders/:id/received", s.MarkOrderReceived)
	cust.POST("/orders/:id/reorder", s.ReorderPrevious)
	cust.GET("/profile", s.GetProfile)
	cust.PUT("/profile", s.UpdateProfile)
	cust.PUT("/profile/notifications", s.UpdateNotifications)

	mgr := e.Group("/api/v1/manager", middleware.BasicAuth(s.authenticateManager))
	mgr.GET("/report", s.GetRestaurantReport)
	mgr.GET("/popular-items", s.GetPopularItems)
	mgr.GET("/orders", s.GetAllOrders)
	mgr.GET("/agents", s.GetAgents)
}

// authenticateCustomer validates basic-auth credentials against the customer
// base and stashes the account on the request context. Each authenticated
// request also triggers a reconcile pass, so customers always observe
// up-to-date order statuses.
func (s *Server) authenticateCustomer(username, password string, ctx echo.Context) (bool, error) {
	c, err := s.svc.LoginCustomer(username, password)
	if err != nil {
		return false, nil
	}

	if _, err = s.svc.CheckUnassignedOrders(ctx.Request().Context()); err != nil {
		return false, err
	}

	ctx.Set(customerContextKey, c)
	return true, nil
}

func (s *Server) authenticateManager(username, password string, _ echo.Context) (bool, error) {
	return s.svc.LoginManager(username, password), nil
}

func currentCustomer(ctx echo.Context) *customer.Customer {
	c, _ := ctx.Get(customerContextKey).(*customer.Customer)
	return c
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// GetMenu handles GET /api/v1/menu.
func (s *Server) GetMenu(ctx echo.Context) error {
	items := s.svc.Catalog().Items()
	response := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, MenuItemResponse{Name: item.Name, Price: item.Price})
	}
	return ctx.JSON(http.StatusOK, response)
}

// RegisterCustomer handles POST /api/v1/customers.
func (s *Server) RegisterCustomer(ctx echo.Context) error {
	var req RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	c, err := s.svc.RegisterCustomer(ctx.Request().Context(), req.Username, req.Password, req.Name)
	if err != nil {
		return errorFromService(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toCustomerResponse(c))
}

// GetOrders handles GET /api/v1/orders. Optional from/to query parameters
// (RFC 3339) narrow the history to a date range, bounds inclusive.
func (s *Server) GetOrders(ctx echo.Context) error {
	c := currentCustomer(ctx)

	var (
		orders []*order.Order
		err    error
	)
	fromRaw, toRaw := ctx.QueryParam("from"), ctx.QueryParam("to")
	if fromRaw != "" || toRaw != "" {
		var from, to time.Time
		if from, err = time.Parse(time.RFC3339, fromRaw); err != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid 'from' timestamp")
		}
		if to, err = time.Parse(time.RFC3339, toRaw); err != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid 'to' timestamp")
		}
		orders, err = s.svc.OrdersByDateRange(c, from, to)
	} else {
		orders, err = s.svc.CustomerOrders(c)
	}
	if err != nil {
		return errorFromService(ctx, err)
	}

	now := s.now()
	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o, now))
	}
	return ctx.JSON(http.StatusOK, response)
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderType, err := order.TypeFromString(req.OrderType)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order type: "+req.OrderType)
	}

	items := make(order.Items, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, order.Line{Name: line.Name, Quantity: line.Quantity})
	}

	o, err := s.svc.PlaceOrder(ctx.Request().Context(), currentCustomer(ctx), orderType, items,
		ordering.PlaceOrderParams{
			SpecialInstructions: req.SpecialInstructions,
			Discount:            req.Discount,
			PromoCode:           req.PromoCode,
		})
	if err != nil {
		return errorFromService(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(o, s.now()))
}

// GetOrderDetails handles GET /api/v1/orders/:id. Any customer may look up
// any order by id; the view includes the owning customer's name.
func (s *Server) GetOrderDetails(ctx echo.Context) error {
	details, err := s.svc.GetOrderDetails(ctx.Param("id"))
	if err != nil {
		return errorFromService(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderDetailsResponse(details))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	err := s.svc.CancelOrder(ctx.Request().Context(), currentCustomer(ctx), ctx.Param("id"))
	if err != nil {
		return errorFromService(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RateOrder handles POST /api/v1/orders/:id/rating.
func (s *Server) RateOrder(ctx echo.Context) error {
	var req RateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	err := s.svc.RateOrder(ctx.Request().Context(), currentCustomer(ctx), ctx.Param("id"), req.Rating, req.Feedback)
	if err != nil {
		return errorFromService(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// MarkOrderReceived handles POST /api/v1/orders/:id/received.
func (s *Server) MarkOrderReceived(ctx echo.Context) error {
	err := s.svc.MarkOrderReceived(ctx.Request().Context(), currentCustomer(ctx), ctx.Param("id"))
	if err != nil {
		return errorFromService(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReorderPrevious handles POST /api/v1/orders/:id/reorder.
func (s *Server) ReorderPrevious(ctx echo.Context) error {
	o, err := s.svc.ReorderPrevious(ctx.Request().Context(), currentCustomer(ctx), ctx.Param("id"))
	if err != nil {
		return errorFromService(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrderResponse(o, s.now()))
}

// GetProfile handles GET /api/v1/profile.
func (s *Server) GetProfile(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, toCustomerResponse(currentCustomer(ctx)))
}

// UpdateProfile handles PUT /api/v1/profile. Omitted fields keep their value.
func (s *Server) UpdateProfile(ctx echo.Context) error {
	var req UpdateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	c := currentCustomer(ctx)
	err := s.svc.UpdateCustomerProfile(ctx.Request().Context(), c.Username(), req.Name, req.Address)
	if err != nil {
		return errorFromService(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toCustomerResponse(c))
}

// UpdateNotifications handles PUT /api/v1/profile/notifications.
func (s *Server) UpdateNotifications(ctx echo.Context) error {
	var req NotificationsRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	c := currentCustomer(ctx)
	err := s.svc.UpdateNotificationPreferences(ctx.Request().Context(), c.Username(), req.Enabled)
	if err != nil {
		return errorFromService(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toCustomerResponse(c))
}

// GetRestaurantReport handles GET /api/v1/manager/report.
func (s *Server) GetRestaurantReport(ctx echo.Context) error {
	report := s.reports.RestaurantReport(s.svc.AllOrders())
	return ctx.JSON(http.StatusOK, RestaurantReportResponse{
		TotalOrders:        report.TotalOrders,
		HomeDeliveryOrders: report.HomeDeliveryOrders,
		TakeawayOrders:     report.TakeawayOrders,
		Revenue:            report.Revenue,
		AverageLeadTime:    report.AverageLeadTime,
		Text:               report.String(),
	})
}

// GetPopularItems handles GET /api/v1/manager/popular-items.
func (s *Server) GetPopularItems(ctx echo.Context) error {
	report := s.reports.PopularItemsReport(s.svc.AllOrders())

	response := PopularItemsResponse{
		Rankings: make([]PopularItemResponse, 0, len(report.Rankings)),
		Text:     report.String(),
	}
	for _, item := range report.Rankings {
		response.Rankings = append(response.Rankings, PopularItemResponse{Name: item.Name, Quantity: item.Quantity})
	}
	if top, ok := report.MostPopular(); ok {
		response.MostPopular = &PopularItemResponse{Name: top.Name, Quantity: top.Quantity}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAllOrders handles GET /api/v1/manager/orders.
func (s *Server) GetAllOrders(ctx echo.Context) error {
	now := s.now()
	orders := s.svc.AllOrders()
	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o, now))
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetAgents handles GET /api/v1/manager/agents.
func (s *Server) GetAgents(ctx echo.Context) error {
	agents := s.svc.Agents()
	response := make([]AgentResponse, 0, len(agents))
	for _, a := range agents {
		ar := AgentResponse{
			ID:        a.ID(),
			Name:      a.Name(),
			Available: a.IsAvailable(),
			Deadline:  a.Deadline(),
		}
		if current := a.CurrentOrder(); current != nil {
			id := current.ID()
			ar.CurrentOrderID = &id
		}
		response = append(response, ar)
	}
	return ctx.JSON(http.StatusOK, response)
}

func toCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		Username:             c.Username(),
		Name:                 c.Name(),
		Address:              c.Address(),
		NotificationsEnabled: c.NotificationsEnabled(),
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// errorFromService maps service errors onto HTTP status codes: missing
// objects to 404, validation failures to 400, credential failures to 401,
// and workflow-state refusals to 409.
func errorFromService(ctx echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ordering.ErrIncorrectPassword):
		code = http.StatusUnauthorized
	case errors.Is(err, ordering.ErrUsernameAlreadyTaken),
		errors.Is(err, ordering.ErrCancelAfterDelivery),
		errors.Is(err, ordering.ErrAgentAlreadyOnTheWay),
		errors.Is(err, ordering.ErrRatingRequiresDelivery),
		errors.Is(err, ordering.ErrOrderNotReady),
		errors.Is(err, ordering.ErrAlreadyPickedUp),
		errors.Is(err, ordering.ErrNotOutForDelivery),
		errors.Is(err, ordering.ErrAlreadyDelivered):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		code = http.StatusBadRequest
	default:
		code = http.StatusInternalServerError
	}

	return errorJSON(ctx, code, err.Error())
}
