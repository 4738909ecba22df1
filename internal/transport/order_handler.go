package transport

import (
	"net/http"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/legacyinput"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemRequest is one requested product. There is no price field:
// orders are always priced from the catalog.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	Comment   *string   `json:"comment"`
}

// OrderRequest represents the order submission payload
type OrderRequest struct {
	CustomerName string             `json:"customerName" validate:"max=255"`
	Address      string             `json:"address"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Origin       string             `json:"origin"`
	Phone        string             `json:"phone" validate:"max=50"`
	Waiter       string             `json:"waiter" validate:"max=100"`
	Comment      string             `json:"comment"`
	EnteredBy    string             `json:"enteredBy" validate:"max=100"`

	// Dine-in
	Table     *int   `json:"table" validate:"omitempty,gte=0"`
	Server    string `json:"server" validate:"max=100"`
	PartySize *int   `json:"partySize" validate:"omitempty,gt=0"`

	// Delivery; the header phone and address are used when these are empty
	DeliveryPhone   string `json:"deliveryPhone" validate:"max=50"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// SubmitOrderResponse is returned after a successful submission
type SubmitOrderResponse struct {
	OrderID uuid.UUID       `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

// OrderItemResponse is one enriched order line
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Comment   *string         `json:"comment"`
}

// OrderResponse is an order with its lines and flattened channel metadata
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	CustomerName string              `json:"customerName"`
	Address      string              `json:"address"`
	Total        decimal.Decimal     `json:"total"`
	CreatedAt    time.Time           `json:"createdAt"`
	Origin       string              `json:"origin"`
	Phone        string              `json:"phone"`
	Waiter       string              `json:"waiter"`
	Comment      string              `json:"comment"`
	EnteredBy    string              `json:"enteredBy"`
	Items        []OrderItemResponse `json:"items"`

	Table           *int   `json:"table,omitempty"`
	Server          string `json:"server,omitempty"`
	PartySize       *int   `json:"partySize,omitempty"`
	DeliveryPhone   string `json:"deliveryPhone,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Address:      order.Address,
		Total:        order.Total,
		CreatedAt:    order.CreatedAt,
		Origin:       string(order.Origin()),
		Phone:        order.Phone,
		Waiter:       order.Waiter,
		Comment:      order.Comment,
		EnteredBy:    order.EnteredBy,
		Items:        make([]OrderItemResponse, 0, len(order.Lines)),
	}

	for _, line := range order.Lines {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Category:  line.Category,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Comment:   line.Comment,
		})
	}

	switch ch := order.Channel.(type) {
	case domain.DineIn:
		resp.Table = ch.Table
		resp.Server = ch.Server
		resp.PartySize = ch.PartySize
	case domain.Delivery:
		resp.DeliveryPhone = ch.Phone
		resp.DeliveryAddress = ch.Address
	}

	return resp
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	legacy       *legacyinput.Adapter
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, legacy *legacyinput.Adapter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		legacy:       legacy,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.Submit)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByKey)
		r.Delete("/{id}", h.Delete)
	})
}

// channel builds the typed channel from the origin tag and its optional fields
func (h *OrderHandler) channel(req OrderRequest) domain.Channel {
	kind, ok := domain.ParseChannelKind(req.Origin)
	if !ok {
		h.logger.Debug("Unknown order origin stored as unset", zap.String("origin", req.Origin))
		return domain.Unset{}
	}

	switch kind {
	case domain.ChannelDineIn:
		dine := domain.DineIn{Table: req.Table, Server: req.Server, PartySize: req.PartySize}
		return h.legacy.CompleteDineIn(dine, req.CustomerName, req.Address)
	case domain.ChannelDelivery:
		delivery := domain.Delivery{Phone: req.DeliveryPhone, Address: req.DeliveryAddress}
		if delivery.Phone == "" {
			delivery.Phone = req.Phone
		}
		if delivery.Address == "" {
			delivery.Address = req.Address
		}
		return delivery
	case domain.ChannelCounter:
		return domain.Counter{}
	default:
		return domain.Unset{}
	}
}

// Submit handles order submission
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	lines := make([]service.LineRequest, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.LineRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Comment:   item.Comment,
		})
	}

	order, err := h.orderService.Submit(r.Context(), service.SubmitOrderInput{
		CustomerName: req.CustomerName,
		Address:      req.Address,
		Lines:        lines,
		Channel:      h.channel(req),
		Phone:        req.Phone,
		Waiter:       req.Waiter,
		Comment:      req.Comment,
		EnteredBy:    req.EnteredBy,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to submit order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, SubmitOrderResponse{
		OrderID: order.ID,
		Total:   order.Total,
	})
}

// List handles listing all orders, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respondWithOrders(w, r, nil)
}

// GetByKey serves GET /api/orders/{id}: a UUID selects one order, anything
// else is treated as a channel filter
func (h *OrderHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")

	if id, err := uuid.Parse(key); err == nil {
		order, err := h.orderService.Get(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, h.logger, err, "failed to get order")
			return
		}
		middleware.RespondWithJSON(w, http.StatusOK, newOrderResponse(order))
		return
	}

	kind, ok := domain.ParseChannelKind(key)
	if !ok || kind == domain.ChannelUnset {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown channel "+key)
		return
	}
	h.respondWithOrders(w, r, &kind)
}

func (h *OrderHandler) respondWithOrders(w http.ResponseWriter, r *http.Request, channel *domain.ChannelKind) {
	orders, err := h.orderService.List(r.Context(), channel)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list orders")
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, newOrderResponse(order))
	}
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Delete handles order deletion
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"orderId": id.String()})
}
