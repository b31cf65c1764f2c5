package controllers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Konathalavenkat/AuctionSphereX/models"
	"github.com/Konathalavenkat/AuctionSphereX/utils"
)

const (
	productListCacheKey    = "cache:products:list:all"
	productDetailCachePfx  = "cache:products:detail:"
	productCacheInvalidPfx = "cache:products:"
	maxUploadSize          = 50 * 1024 * 1024
	uploadFolder           = "auctionspherex"
)

// ProductController manages CRUD operations for marketplace listings.
type ProductController struct {
	db *gorm.DB
}

// NewProductController creates a new ProductController instance.
func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{db: db}
}

type addProductRequest struct {
	Name                 string  `json:"name" binding:"required,min=1"`
	Description          string  `json:"description"`
	Price                float64 `json:"price"`
	Category             string  `json:"category"`
	Age                  int     `json:"age"`
	BillAvailable        bool    `json:"billAvailable"`
	WarrantyAvailable    bool    `json:"warrantyAvailable"`
	AccessoriesAvailable bool    `json:"accessoriesAvailable"`
	BoxAvailable         bool    `json:"boxAvailable"`
	// Relative expiry offsets, applied days then hours then minutes. A
	// listing with none of the three set never expires.
	ExpiryDays    *int `json:"expiryDays"`
	ExpiryHours   *int `json:"expiryHours"`
	ExpiryMinutes *int `json:"expiryMinutes"`
}

// AddProduct persists a new listing for the authenticated seller, schedules
// its expiry removal and notifies every admin for moderation.
func (p *ProductController) AddProduct(ctx *gin.Context) {
	var req addProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	sellerID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, "unauthorized")
		return
	}

	now := time.Now()
	product := models.Product{
		SellerID:             sellerID,
		Name:                 utils.Sanitize(strings.TrimSpace(req.Name)),
		Description:          utils.Sanitize(req.Description),
		Price:                req.Price,
		Category:             req.Category,
		Age:                  req.Age,
		BillAvailable:        req.BillAvailable,
		WarrantyAvailable:    req.WarrantyAvailable,
		AccessoriesAvailable: req.AccessoriesAvailable,
		BoxAvailable:         req.BoxAvailable,
		Status:               models.StatusPending,
		Images:               models.StringList{},
		CreatedAt:            now,
	}

	if req.ExpiryDays != nil || req.ExpiryHours != nil || req.ExpiryMinutes != nil {
		expiry := now.
			AddDate(0, 0, intOrZero(req.ExpiryDays)).
			Add(time.Duration(intOrZero(req.ExpiryHours)) * time.Hour).
			Add(time.Duration(intOrZero(req.ExpiryMinutes)) * time.Minute)
		product.ExpiryTime = &expiry
	}

	if err := p.db.Create(&product).Error; err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	if product.ExpiryTime != nil {
		utils.ScheduleRemoval(p.db, product.ID, product.ExpiryTime.Sub(now))
	}

	utils.NotifyAdmins(p.db, "New Product", "A New product is added", "/admin")
	utils.InvalidateByPrefix(productCacheInvalidPfx)

	utils.OKMessage(ctx, "Product added successfully")
}

type listProductsRequest struct {
	Seller   uint     `json:"seller"`
	Category []string `json:"category"`
	Age      []string `json:"age"` // "lo-hi" entries
	Status   string   `json:"status"`
}

// GetProducts returns listings matching the conjunctive filters in the body,
// newest first, each with its seller resolved.
func (p *ProductController) GetProducts(ctx *gin.Context) {
	var req listProductsRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.Fail(ctx, err.Error())
			return
		}
	}

	unfiltered := req.Seller == 0 && req.Status == "" && len(req.Category) == 0 && len(req.Age) == 0
	if unfiltered {
		if b, ok := utils.CacheGetBytes(productListCacheKey); ok {
			ctx.Data(200, "application/json", b)
			return
		}
	}

	query := p.db.Preload("Seller").Order("created_at DESC")
	if req.Seller != 0 {
		query = query.Where("seller_id = ?", req.Seller)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if len(req.Category) > 0 {
		query = query.Where("category IN ?", req.Category)
	}
	// Each age entry overwrites the previous range rather than unioning with
	// it, so with multiple entries the last valid one wins.
	if len(req.Age) > 0 {
		fromAge, toAge, found := 0, 0, false
		for _, item := range req.Age {
			parts := strings.SplitN(item, "-", 2)
			if len(parts) != 2 {
				continue
			}
			lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
			hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errLo != nil || errHi != nil {
				continue
			}
			fromAge, toAge, found = lo, hi, true
		}
		if found {
			query = query.Where("age >= ? AND age <= ?", fromAge, toAge)
		}
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	if unfiltered {
		wrapper := utils.JSONResponse{Success: true, Data: products}
		utils.CacheSetJSON(productListCacheKey, wrapper, time.Hour)
	}
	utils.OK(ctx, products)
}

// GetProductByID returns one listing with its seller resolved. A missing id
// is reported as a distinct failure rather than a null payload.
func (p *ProductController) GetProductByID(ctx *gin.Context) {
	productID := ctx.Param("id")

	if b, ok := utils.CacheGetBytes(productDetailCachePfx + productID); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var product models.Product
	if err := p.db.Preload("Seller").First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Fail(ctx, "product not found")
			return
		}
		utils.Fail(ctx, err.Error())
		return
	}

	wrapper := utils.JSONResponse{Success: true, Data: product}
	utils.CacheSetJSON(productDetailCachePfx+productID, wrapper, time.Hour)
	utils.OK(ctx, product)
}

// editableColumns maps JSON field names accepted by EditProduct onto columns.
var editableColumns = map[string]string{
	"name":                 "name",
	"description":          "description",
	"price":                "price",
	"category":             "category",
	"age":                  "age",
	"billAvailable":        "bill_available",
	"warrantyAvailable":    "warranty_available",
	"accessoriesAvailable": "accessories_available",
	"boxAvailable":         "box_available",
	"status":               "status",
	"expiryTime":           "expiry_time",
}

// EditProduct applies a partial update of arbitrary fields by identifier.
// Unknown fields are dropped; a missing id still acknowledges success.
func (p *ProductController) EditProduct(ctx *gin.Context) {
	productID := ctx.Param("id")

	var body map[string]interface{}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	updates := map[string]interface{}{}
	for key, value := range body {
		column, ok := editableColumns[key]
		if !ok {
			continue
		}
		if s, isString := value.(string); isString && (column == "name" || column == "description") {
			value = utils.Sanitize(s)
		}
		// expiryTime arrives as RFC3339; null clears it so the listing stops
		// expiring. An extended expiry outlives any stale removal timer since
		// removal re-checks the stored instant.
		if column == "expiry_time" {
			switch t := value.(type) {
			case nil:
			case string:
				parsed, err := time.Parse(time.RFC3339, t)
				if err != nil {
					utils.Fail(ctx, err.Error())
					return
				}
				value = parsed
			default:
				continue
			}
		}
		updates[column] = value
	}

	if len(updates) > 0 {
		if err := p.db.Model(&models.Product{}).Where("id = ?", productID).Updates(updates).Error; err != nil {
			utils.Fail(ctx, err.Error())
			return
		}
	}

	utils.InvalidateByPrefix(productCacheInvalidPfx)
	utils.OKMessage(ctx, "Product updated successfully")
}

// DeleteProduct removes a listing unconditionally. A later expiry timer
// firing for the same id is an idempotent no-op.
func (p *ProductController) DeleteProduct(ctx *gin.Context) {
	productID := ctx.Param("id")

	if err := p.db.Delete(&models.Product{}, "id = ?", productID).Error; err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	utils.InvalidateByPrefix(productCacheInvalidPfx)
	utils.OKMessage(ctx, "Product deleted successfully")
}

// UploadImage stores one uploaded file in the image store and appends the
// resulting URL to the product's image list. Existing entries are never
// replaced.
func (p *ProductController) UploadImage(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Fail(ctx, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		utils.Fail(ctx, "file size exceeds 50MB")
		return
	}

	productID := strings.TrimSpace(ctx.PostForm("productId"))
	if productID == "" {
		utils.Fail(ctx, "missing productId")
		return
	}

	var product models.Product
	if err := p.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Fail(ctx, "product not found")
			return
		}
		utils.Fail(ctx, err.Error())
		return
	}

	fname := filepath.Base(header.Filename)
	if fname == "." || fname == "" {
		fname = fmt.Sprintf("file_%d", time.Now().UnixNano())
	}
	objectName := fmt.Sprintf("%s/products/%d/%d_%s", uploadFolder, product.ID, time.Now().UnixNano(), fname)

	url, err := utils.GetImageStore().Save(ctx.Request.Context(), objectName, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	product.Images = append(product.Images, url)
	if err := p.db.Model(&product).Update("images", product.Images).Error; err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	utils.InvalidateByPrefix(productCacheInvalidPfx)
	utils.OKUpload(ctx, "Image uploaded successfully", url)
}

// UpdateStatus sets the moderation status and notifies the seller about it.
func (p *ProductController) UpdateStatus(ctx *gin.Context) {
	productID := ctx.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	var product models.Product
	if err := p.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Fail(ctx, "product not found")
			return
		}
		utils.Fail(ctx, err.Error())
		return
	}

	if err := p.db.Model(&product).Update("status", req.Status).Error; err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	message := fmt.Sprintf("Your product %s has been %s", product.Name, req.Status)
	if err := utils.NotifyUser(p.db, product.SellerID, "Product Status Updated", message, "/profile"); err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	// Best-effort email; notification above is the durable record.
	go p.emailSeller(product.SellerID, message)

	utils.InvalidateByPrefix(productCacheInvalidPfx)
	utils.OKMessage(ctx, "Product status updated successfully")
}

func (p *ProductController) emailSeller(sellerID uint, message string) {
	var seller models.User
	if err := p.db.First(&seller, sellerID).Error; err != nil || seller.Email == "" {
		return
	}
	if err := utils.SendMail(seller.Email, "Product Status Updated", message); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Debugf("status email to %s failed: %v", seller.Email, err)
		}
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
