package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/restofleet/pos-admin-api/internal/domain"
)

// Ref is the {id, name} shape the console's option selectors submit for a
// linked record. Only the id is binding; the name rides along for display.
type Ref struct {
	ID   uint   `json:"id"`
	Name string `json:"name,omitempty"`
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid payload")
	}
	return nil
}

func required(value, field string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return v, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Payloads omit active to mean true, matching the console's default-checked
// toggle.
type activeFlag struct {
	Active *bool `json:"active"`
}

func (f activeFlag) value() bool { return f.Active == nil || *f.Active }

func BindRestaurant(r *http.Request) (*domain.Restaurant, error) {
	var body struct {
		ID      uint   `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Logo    string `json:"logo"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	return &domain.Restaurant{
		ID:      body.ID,
		Name:    name,
		Address: strings.TrimSpace(body.Address),
		Phone:   strings.TrimSpace(body.Phone),
		Logo:    strings.TrimSpace(body.Logo),
		Active:  body.value(),
	}, nil
}

func BindDiningTable(r *http.Request) (*domain.DiningTable, error) {
	var body struct {
		ID         uint   `json:"id"`
		Name       string `json:"name"`
		Seats      int    `json:"seats"`
		Location   string `json:"location"`
		Status     string `json:"status"`
		Restaurant *Ref   `json:"restaurant"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	if body.Seats < 1 {
		return nil, errors.New("seats must be a positive integer")
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = "AVAILABLE"
	}
	table := &domain.DiningTable{
		ID:       body.ID,
		Name:     name,
		Seats:    body.Seats,
		Location: strings.TrimSpace(body.Location),
		Status:   status,
		Active:   body.value(),
	}
	if body.Restaurant != nil {
		if body.Restaurant.ID == 0 {
			return nil, errors.New("restaurant id is required")
		}
		table.RestaurantID = body.Restaurant.ID
	}
	return table, nil
}

func BindSupplier(r *http.Request) (*domain.Supplier, error) {
	var body struct {
		ID      uint   `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	return &domain.Supplier{
		ID:      body.ID,
		Name:    name,
		Address: strings.TrimSpace(body.Address),
		Phone:   strings.TrimSpace(body.Phone),
		Email:   strings.ToLower(strings.TrimSpace(body.Email)),
		Active:  body.value(),
	}, nil
}

func BindIngredient(r *http.Request) (*domain.Ingredient, error) {
	var body struct {
		ID       uint    `json:"id"`
		Name     string  `json:"name"`
		Unit     string  `json:"unit"`
		Price    float64 `json:"price"`
		Image    string  `json:"image"`
		Supplier *Ref    `json:"supplier"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	unit, err := required(body.Unit, "unit")
	if err != nil {
		return nil, err
	}
	if body.Price < 0 {
		return nil, errors.New("price must not be negative")
	}
	ing := &domain.Ingredient{
		ID:     body.ID,
		Name:   name,
		Unit:   unit,
		Price:  body.Price,
		Image:  strings.TrimSpace(body.Image),
		Active: body.value(),
	}
	if body.Supplier != nil {
		if body.Supplier.ID == 0 {
			return nil, errors.New("supplier id is required")
		}
		ing.SupplierID = body.Supplier.ID
	}
	return ing, nil
}

func BindProduct(r *http.Request) (*domain.Product, error) {
	var body struct {
		ID           uint    `json:"id"`
		Name         string  `json:"name"`
		ShortDesc    string  `json:"shortDesc"`
		DetailDesc   string  `json:"detailDesc"`
		SellingPrice float64 `json:"sellingPrice"`
		Image        string  `json:"image"`
		Status       string  `json:"status"`
		Restaurant   *Ref    `json:"restaurant"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	if body.SellingPrice < 0 {
		return nil, errors.New("sellingPrice must not be negative")
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = "ACTIVE"
	}
	product := &domain.Product{
		ID:           body.ID,
		Name:         name,
		ShortDesc:    strings.TrimSpace(body.ShortDesc),
		DetailDesc:   strings.TrimSpace(body.DetailDesc),
		SellingPrice: body.SellingPrice,
		Image:        strings.TrimSpace(body.Image),
		Status:       status,
		Active:       body.value(),
	}
	if body.Restaurant != nil {
		if body.Restaurant.ID == 0 {
			return nil, errors.New("restaurant id is required")
		}
		product.RestaurantID = body.Restaurant.ID
	}
	return product, nil
}

func BindOrder(r *http.Request) (*domain.Order, error) {
	var body struct {
		ID     uint    `json:"id"`
		Code   string  `json:"code"`
		Status string  `json:"status"`
		Note   string  `json:"note"`
		Total  float64 `json:"total"`
		Table  *Ref    `json:"table"`
		User   *Ref    `json:"user"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	code, err := required(body.Code, "code")
	if err != nil {
		return nil, err
	}
	if body.Total < 0 {
		return nil, errors.New("total must not be negative")
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = "PENDING"
	}
	order := &domain.Order{
		ID:     body.ID,
		Code:   code,
		Status: status,
		Note:   strings.TrimSpace(body.Note),
		Total:  round2(body.Total),
	}
	if body.Table != nil {
		order.TableID = body.Table.ID
	}
	if body.User != nil {
		order.UserID = body.User.ID
	}
	return order, nil
}

func BindUser(r *http.Request) (*domain.User, error) {
	var body struct {
		ID     uint   `json:"id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		Phone  string `json:"phone"`
		Avatar string `json:"avatar"`
		Role   *Ref   `json:"role"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	email, err := required(body.Email, "email")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, errors.New("email is invalid")
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:     body.ID,
		Email:  strings.ToLower(email),
		Name:   name,
		Phone:  strings.TrimSpace(body.Phone),
		Avatar: strings.TrimSpace(body.Avatar),
		Active: body.value(),
	}
	if body.Role != nil {
		if body.Role.ID == 0 {
			return nil, errors.New("role id is required")
		}
		user.RoleID = body.Role.ID
	}
	return user, nil
}

func BindRole(r *http.Request) (*domain.Role, error) {
	var body struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	return &domain.Role{
		ID:          body.ID,
		Name:        strings.ToUpper(name),
		Description: strings.TrimSpace(body.Description),
		Active:      body.value(),
	}, nil
}

func BindPermission(r *http.Request) (*domain.Permission, error) {
	var body struct {
		ID      uint   `json:"id"`
		Name    string `json:"name"`
		Method  string `json:"method"`
		APIPath string `json:"apiPath"`
		Module  string `json:"module"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	method := strings.ToUpper(strings.TrimSpace(body.Method))
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, errors.New("method must be GET, POST, PUT or DELETE")
	}
	apiPath, err := required(body.APIPath, "apiPath")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(apiPath, "/") {
		return nil, errors.New("apiPath must start with /")
	}
	module, err := required(body.Module, "module")
	if err != nil {
		return nil, err
	}
	return &domain.Permission{
		ID:      body.ID,
		Name:    name,
		Method:  method,
		APIPath: apiPath,
		Module:  strings.ToUpper(module),
	}, nil
}

func BindInvoice(r *http.Request) (*domain.Invoice, error) {
	var body struct {
		ID       uint       `json:"id"`
		Code     string     `json:"code"`
		Status   string     `json:"status"`
		Subtotal float64    `json:"subtotal"`
		TaxRate  float64    `json:"taxRate"`
		Order    *Ref       `json:"order"`
		IssuedAt *time.Time `json:"issuedAt"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	code, err := required(body.Code, "code")
	if err != nil {
		return nil, err
	}
	if body.Subtotal < 0 || body.TaxRate < 0 || body.TaxRate > 1 {
		return nil, errors.New("subtotal must not be negative and taxRate must be between 0 and 1")
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = "UNPAID"
	}
	issuedAt := time.Now().UTC()
	if body.IssuedAt != nil {
		issuedAt = body.IssuedAt.UTC()
	}
	inv := &domain.Invoice{
		ID:         body.ID,
		Code:       code,
		Status:     status,
		Subtotal:   round2(body.Subtotal),
		TaxRate:    body.TaxRate,
		GrandTotal: round2(body.Subtotal * (1 + body.TaxRate)),
		IssuedAt:   issuedAt,
	}
	if body.Order != nil {
		inv.OrderID = body.Order.ID
	}
	return inv, nil
}

func BindReceipt(r *http.Request) (*domain.Receipt, error) {
	var body struct {
		ID      uint       `json:"id"`
		Code    string     `json:"code"`
		Method  string     `json:"method"`
		Amount  float64    `json:"amount"`
		Invoice *Ref       `json:"invoice"`
		PaidAt  *time.Time `json:"paidAt"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	code, err := required(body.Code, "code")
	if err != nil {
		return nil, err
	}
	method, err := required(body.Method, "method")
	if err != nil {
		return nil, err
	}
	if body.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	paidAt := time.Now().UTC()
	if body.PaidAt != nil {
		paidAt = body.PaidAt.UTC()
	}
	rec := &domain.Receipt{
		ID:     body.ID,
		Code:   code,
		Method: strings.ToUpper(method),
		Amount: round2(body.Amount),
		PaidAt: paidAt,
	}
	if body.Invoice != nil {
		rec.InvoiceID = body.Invoice.ID
	}
	return rec, nil
}

func BindShift(r *http.Request) (*domain.Shift, error) {
	var body struct {
		ID       uint       `json:"id"`
		Name     string     `json:"name"`
		StartsAt *time.Time `json:"startsAt"`
		EndsAt   *time.Time `json:"endsAt"`
		Status   string     `json:"status"`
		Note     string     `json:"note"`
		User     *Ref       `json:"user"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	if body.StartsAt == nil || body.EndsAt == nil {
		return nil, errors.New("startsAt and endsAt are required")
	}
	if !body.EndsAt.After(*body.StartsAt) {
		return nil, errors.New("endsAt must be after startsAt")
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = "SCHEDULED"
	}
	shift := &domain.Shift{
		ID:       body.ID,
		Name:     name,
		StartsAt: body.StartsAt.UTC(),
		EndsAt:   body.EndsAt.UTC(),
		Status:   status,
		Note:     strings.TrimSpace(body.Note),
	}
	if body.User != nil {
		shift.UserID = body.User.ID
	}
	return shift, nil
}

func BindClient(r *http.Request) (*domain.Client, error) {
	var body struct {
		ID      uint   `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		activeFlag
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	name, err := required(body.Name, "name")
	if err != nil {
		return nil, err
	}
	return &domain.Client{
		ID:      body.ID,
		Name:    name,
		Email:   strings.ToLower(strings.TrimSpace(body.Email)),
		Phone:   strings.TrimSpace(body.Phone),
		Address: strings.TrimSpace(body.Address),
		Active:  body.value(),
	}, nil
}

func BindReview(r *http.Request) (*domain.Review, error) {
	var body struct {
		ID      uint   `json:"id"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
		Status  string `json:"status"`
		Client  *Ref   `json:"client"`
		Product *Ref   `json:"product"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	if body.Rating < 1 || body.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = "PENDING"
	}
	review := &domain.Review{
		ID:      body.ID,
		Rating:  body.Rating,
		Comment: strings.TrimSpace(body.Comment),
		Status:  status,
	}
	if body.Client != nil {
		review.ClientID = body.Client.ID
	}
	if body.Product != nil {
		review.ProductID = body.Product.ID
	}
	return review, nil
}

func BindFeedback(r *http.Request) (*domain.Feedback, error) {
	var body struct {
		ID      uint   `json:"id"`
		Subject string `json:"subject"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Client  *Ref   `json:"client"`
	}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}
	subject, err := required(body.Subject, "subject")
	if err != nil {
		return nil, err
	}
	message, err := required(body.Message, "message")
	if err != nil {
		return nil, err
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = "NEW"
	}
	fb := &domain.Feedback{
		ID:      body.ID,
		Subject: subject,
		Message: message,
		Status:  status,
	}
	if body.Client != nil {
		fb.ClientID = body.Client.ID
	}
	return fb, nil
}
