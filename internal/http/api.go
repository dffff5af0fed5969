package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inventory-api/internal/auth"
	"inventory-api/internal/domain"
	"inventory-api/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth      service.AuthService
	products  service.ProductService
	snapshots service.SnapshotService
	tokens    auth.TokenCodec
	logger    *logrus.Logger
}

func NewHandler(authSvc service.AuthService, products service.ProductService, snapshots service.SnapshotService, tokens auth.TokenCodec, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		auth:      authSvc,
		products:  products,
		snapshots: snapshots,
		tokens:    tokens,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.POST("/register", h.register)
		api.POST("/login", h.login)
	}

	protected := api.Group("", AuthMiddleware(h.tokens))
	{
		protected.GET("/productos", h.listProducts)
		protected.POST("/productos", h.createProduct)
		protected.GET("/productos/:id", h.getProduct)
		protected.PUT("/productos/:id", h.updateProduct)
		protected.DELETE("/productos/:id", h.deleteProduct)
		protected.POST("/snapshots", h.createSnapshot)
		protected.GET("/snapshots", h.listSnapshots)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type productRequest struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Quantity    *int    `json:"cantidad"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(products[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(*product))
}

func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if !h.bind(c, &req) {
		return
	}

	input := service.ProductInput{Quantity: req.Quantity}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}

	product, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, productToResponse(*product))
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req productRequest
	if !h.bind(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		// writes against unknown ids answer 400, reads answer 404
		if errors.Is(err, service.ErrProductNotFound) {
			h.abort(c, http.StatusBadRequest, codeProductNotFound, "product not found")
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(*product))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			h.abort(c, http.StatusBadRequest, codeProductNotFound, "product not found")
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "id": id})
}

func (h *Handler) createSnapshot(c *gin.Context) {
	userID, _ := auth.UserIDFrom(c.Request.Context())

	snapshot, err := h.snapshots.Export(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshotToResponse(*snapshot))
}

func (h *Handler) listSnapshots(c *gin.Context) {
	snapshots, err := h.snapshots.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]SnapshotResponse, len(snapshots))
	for i := range snapshots {
		resp[i] = snapshotToResponse(snapshots[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.abort(c, http.StatusBadRequest, codeInvalidID, "invalid product id")
		return 0, false
	}
	return id, true
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type ProductResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Quantity    int    `json:"cantidad"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type SnapshotResponse struct {
	Key       string  `json:"key"`
	Size      int64   `json:"size"`
	CreatedAt *string `json:"created_at,omitempty"`
	URL       string  `json:"url,omitempty"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func productToResponse(product domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Quantity:    product.Quantity,
		CreatedAt:   product.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   product.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func snapshotToResponse(snapshot domain.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		Key:  snapshot.Key,
		Size: snapshot.Size,
		URL:  snapshot.URL,
	}
	if !snapshot.CreatedAt.IsZero() {
		v := snapshot.CreatedAt.UTC().Format(time.RFC3339)
		resp.CreatedAt = &v
	}
	return resp
}
