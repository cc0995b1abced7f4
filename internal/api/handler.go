package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/broker"
	"storefront-service/internal/imagegen"
	"storefront-service/internal/media"
	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/pricing"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxUploadBytes = 10 << 20

// Handler contains HTTP handlers
type Handler struct {
	settings *store.SettingsStore
	catalog  *store.CatalogStore
	cart     *store.CartStore
	archive  *store.Archive
	checkout *service.CheckoutService
	notifier *notify.Notifier
	auth     *auth.Service
	imagegen *imagegen.Client
	events   *broker.EventPublisher
}

// NewHandler creates a new HTTP handler
func NewHandler(
	settings *store.SettingsStore,
	catalog *store.CatalogStore,
	cart *store.CartStore,
	archive *store.Archive,
	checkout *service.CheckoutService,
	notifier *notify.Notifier,
	authService *auth.Service,
	imagegenClient *imagegen.Client,
	events *broker.EventPublisher,
) *Handler {
	return &Handler{
		settings: settings,
		catalog:  catalog,
		cart:     cart,
		archive:  archive,
		checkout: checkout,
		notifier: notifier,
		auth:     authService,
		imagegen: imagegenClient,
		events:   events,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/login", h.login)

		v1.GET("/settings", h.getSettings)
		v1.GET("/toast", h.getToast)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)
		v1.GET("/regions", h.listRegions)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addToCart)
		v1.DELETE("/cart/items/:id", h.removeFromCart)

		co := v1.Group("/checkout/sessions")
		{
			co.POST("", h.startCheckout)
			co.GET("/:id", h.getCheckoutSession)
			co.POST("/:id/details", h.submitDetails)
			co.GET("/:id/quote", h.getQuote)
			co.POST("/:id/confirm", h.confirmOrder)
			co.GET("/:id/order", h.getConfirmedOrder)
			co.GET("/:id/order/text", h.getOrderText)
			co.GET("/:id/order/download", h.downloadOrder)
			co.POST("/:id/notify", h.notifyOrder)
		}

		admin := v1.Group("/admin")
		admin.Use(h.requireSession())
		{
			admin.POST("/products", h.createProduct)
			admin.PUT("/products/:id", h.updateProduct)
			admin.DELETE("/products/:id", h.deleteProduct)

			admin.PUT("/categories/:name", h.renameCategory)
			admin.DELETE("/categories/:name", h.deleteCategory)

			admin.PATCH("/settings", h.patchSettings)

			admin.POST("/delivery-companies", h.createDeliveryCompany)
			admin.PUT("/delivery-companies/:id", h.updateDeliveryCompany)
			admin.DELETE("/delivery-companies/:id", h.deleteDeliveryCompany)

			admin.GET("/orders", h.listArchivedOrders)
			admin.GET("/orders/:id", h.getArchivedOrder)

			admin.POST("/images", h.uploadImage)
			admin.POST("/images/generate", h.generateImage)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// login checks the shared admin secret and returns a session token
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// requireSession gates admin routes behind a valid login token
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

		ok, err := h.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Session check failed"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		c.Next()
	}
}

// getSettings returns the current store configuration
func (h *Handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Settings())
}

// getToast returns the transient toast state
func (h *Handler) getToast(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Toast())
}

// listProducts returns the catalog
func (h *Handler) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.catalog.Products()})
}

// getProduct returns a single product
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, found := h.catalog.Product(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// listCategories returns the derived category set
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// listRegions returns the fixed shipping table
func (h *Handler) listRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": pricing.Regions()})
}

// getCart returns the cart lines and derived totals
func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":    h.cart.Items(),
		"count":    h.cart.Count(),
		"subtotal": h.cart.Subtotal(),
	})
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// addToCart adds one unit of a catalog product to the cart
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, found := h.catalog.Product(req.ProductID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	h.cart.AddToCart(product)
	h.getCart(c)
}

// removeFromCart deletes a whole cart line
func (h *Handler) removeFromCart(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if !h.cart.RemoveFromCart(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	h.getCart(c)
}

// startCheckout opens a checkout session. The optional customer key
// header identifies a returning customer for saved details.
func (h *Handler) startCheckout(c *gin.Context) {
	session, err := h.checkout.StartSession(c.Request.Context(), c.GetHeader("X-Customer-Key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start checkout", "details": err.Error()})
		return
	}

	owner, _ := h.checkout.Owner(session.ID)
	c.JSON(http.StatusCreated, gin.H{"session": session, "customer_key": owner})
}

// getCheckoutSession returns the session state
func (h *Handler) getCheckoutSession(c *gin.Context) {
	session, err := h.checkout.Session(c.Param("id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

type detailsRequest struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Region            string `json:"region"`
	City              string `json:"city"`
	Email             string `json:"email"`
	DeliveryCompanyID int64  `json:"delivery_company_id"`
	Remember          bool   `json:"remember"`
}

// submitDetails validates the customer details and advances the session
// to the payment step
func (h *Handler) submitDetails(c *gin.Context) {
	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	details := models.CustomerDetails{
		Name:              req.Name,
		Phone:             req.Phone,
		Region:            req.Region,
		City:              req.City,
		Email:             req.Email,
		DeliveryCompanyID: req.DeliveryCompanyID,
	}

	fieldErrors, err := h.checkout.SubmitDetails(c.Request.Context(), c.Param("id"), details, req.Remember)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	if fieldErrors != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrors})
		return
	}

	session, _ := h.checkout.Session(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// getQuote prices the session checkout from current inputs
func (h *Handler) getQuote(c *gin.Context) {
	quote, err := h.checkout.Quote(c.Param("id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// confirmOrder finalizes the checkout and returns the order snapshot
func (h *Handler) confirmOrder(c *gin.Context) {
	order, err := h.checkout.ConfirmOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// getConfirmedOrder returns the immutable order snapshot
func (h *Handler) getConfirmedOrder(c *gin.Context) {
	order, err := h.checkout.ConfirmedOrder(c.Param("id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// getOrderText returns the formatted order as plain text
func (h *Handler) getOrderText(c *gin.Context) {
	order, err := h.checkout.ConfirmedOrder(c.Param("id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	text := notify.FormatOrder(h.settings.Settings().StoreName, order)
	c.String(http.StatusOK, text)
}

// downloadOrder returns the formatted order as a downloadable text file
// named by the customer phone number
func (h *Handler) downloadOrder(c *gin.Context) {
	order, err := h.checkout.ConfirmedOrder(c.Param("id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	text := notify.FormatOrder(h.settings.Settings().StoreName, order)
	c.Header("Content-Disposition", `attachment; filename="`+notify.DownloadFilename(order)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// notifyOrder routes the confirmed order through the configured
// notification sink and returns the dispatch result
func (h *Handler) notifyOrder(c *gin.Context) {
	order, err := h.checkout.ConfirmedOrder(c.Param("id"))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	settings := h.settings.Settings()
	dispatch := h.notifier.Dispatch(settings.Notifications, settings.StoreName, order)
	c.JSON(http.StatusOK, dispatch)
}

type productRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Price       int64                   `json:"price" binding:"min=0"`
	Category    string                  `json:"category" binding:"required"`
	Image       string                  `json:"image"`
	Description string                  `json:"description"`
	Variants    []models.ProductVariant `json:"variants"`
}

func (r productRequest) toProduct() models.Product {
	return models.Product{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		Description: r.Description,
		Variants:    r.Variants,
	}
}

// createProduct adds a catalog product
func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product := h.catalog.AddProduct(req.toProduct())
	h.settings.ShowToast("Product added")
	c.JSON(http.StatusCreated, product)
}

// updateProduct replaces a catalog product by id
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product := req.toProduct()
	product.ID = id
	if !h.catalog.UpdateProduct(product) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	h.settings.ShowToast("Product updated")
	c.JSON(http.StatusOK, product)
}

// deleteProduct removes a catalog product
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, found := h.catalog.Product(id)
	if !found || !h.catalog.DeleteProduct(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if h.events != nil {
		if err := h.events.PublishProductRemoved(c.Request.Context(), id, product.Category, "deleted"); err != nil {
			util.GetLogger().Error("Failed to publish product removal")
		}
	}

	h.settings.ShowToast("Product deleted")
	c.Status(http.StatusNoContent)
}

type renameCategoryRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// renameCategory renames the category on every member product
func (h *Handler) renameCategory(c *gin.Context) {
	var req renameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	renamed := h.catalog.UpdateCategory(c.Param("name"), req.NewName)
	h.settings.ShowToast("Category updated")
	c.JSON(http.StatusOK, gin.H{"renamed": renamed})
}

// deleteCategory removes every product in the category
func (h *Handler) deleteCategory(c *gin.Context) {
	name := c.Param("name")
	removed := h.catalog.DeleteCategory(name)

	if h.events != nil {
		for _, id := range removed {
			if err := h.events.PublishProductRemoved(c.Request.Context(), id, name, "category_deleted"); err != nil {
				util.GetLogger().Error("Failed to publish product removal")
			}
		}
	}

	h.settings.ShowToast("Category deleted")
	c.JSON(http.StatusOK, gin.H{"removed": len(removed)})
}

// patchSettings merges a partial settings update
func (h *Handler) patchSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	settings := h.settings.UpdateSettings(patch)
	h.settings.ShowToast("Settings saved")
	c.JSON(http.StatusOK, settings)
}

type deliveryCompanyRequest struct {
	Name string `json:"name" binding:"required"`
	Fee  int64  `json:"fee" binding:"min=0"`
}

// createDeliveryCompany adds a carrier
func (h *Handler) createDeliveryCompany(c *gin.Context) {
	var req deliveryCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	company := h.settings.AddDeliveryCompany(req.Name, req.Fee)
	h.settings.ShowToast("Delivery company added")
	c.JSON(http.StatusCreated, company)
}

// updateDeliveryCompany replaces a carrier by id
func (h *Handler) updateDeliveryCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req deliveryCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	company := models.DeliveryCompany{ID: id, Name: req.Name, Fee: req.Fee}
	if !h.settings.UpdateDeliveryCompany(company) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery company not found"})
		return
	}

	h.settings.ShowToast("Delivery company updated")
	c.JSON(http.StatusOK, company)
}

// deleteDeliveryCompany removes a carrier
func (h *Handler) deleteDeliveryCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if !h.settings.DeleteDeliveryCompany(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery company not found"})
		return
	}

	h.settings.ShowToast("Delivery company deleted")
	c.Status(http.StatusNoContent)
}

// listArchivedOrders returns recently confirmed orders
func (h *Handler) listArchivedOrders(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	orders, err := h.archive.RecentOrders(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getArchivedOrder returns one archived order with its items
func (h *Handler) getArchivedOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.archive.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// uploadImage ingests an uploaded image and returns it resized and
// re-encoded as a data URI
func (h *Handler) uploadImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file", "details": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image", "details": err.Error()})
		return
	}

	dataURI, err := media.ResizeToDataURI(data, media.DefaultMaxSize)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to process image", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": dataURI})
}

type generateImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// generateImage calls the external image generation service
func (h *Handler) generateImage(c *gin.Context) {
	var req generateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	image, err := h.imagegen.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, imagegen.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": image})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid checkout step"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed", "details": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
