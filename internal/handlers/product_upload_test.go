package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseMultipartProductRequest_PicksLastSaleEnabledValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("saleEnabled", "false")
	_ = writer.WriteField("saleEnabled", "true")
	_ = writer.WriteField("salePrice", "99")
	_ = writer.Close()

	req := httptest.NewRequest("PUT", "/vendor/products/1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if !parsed.SaleEnabledSet || !parsed.SaleEnabled {
		t.Fatalf("expected saleEnabled=true, got %+v", parsed)
	}
	if !parsed.SalePriceSet || parsed.SalePrice != 99 {
		t.Fatalf("expected salePrice=99, got %+v", parsed)
	}
}

func TestParseMultipartProductRequest_CheckboxPairsKeepLastValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("isActive", "false")
	_ = writer.WriteField("isActive", "on")
	_ = writer.WriteField("isCampaign", "true")
	_ = writer.WriteField("isCampaign", "false")
	_ = writer.Close()

	req := httptest.NewRequest("PUT", "/vendor/products/1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if !parsed.IsActiveSet || !parsed.IsActive {
		t.Fatalf("expected isActive=true, got %+v", parsed)
	}
	if !parsed.IsCampaignSet || parsed.IsCampaign {
		t.Fatalf("expected isCampaign=false, got %+v", parsed)
	}
}

func TestParseMultipartProductRequest_FurnitureFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("name", "Walnut desk")
	_ = writer.WriteField("material", "walnut")
	_ = writer.WriteField("color", "brown")
	_ = writer.WriteField("price", "450")
	_ = writer.WriteField("stock", "3")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/vendor/products", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if !parsed.MaterialSet || parsed.Material != "walnut" {
		t.Fatalf("expected material=walnut, got %+v", parsed)
	}
	if !parsed.ColorSet || parsed.Color != "brown" {
		t.Fatalf("expected color=brown, got %+v", parsed)
	}
	if !parsed.PriceSet || parsed.Price != 450 {
		t.Fatalf("expected price=450, got %+v", parsed)
	}
	if !parsed.StockSet || parsed.Stock != 3 {
		t.Fatalf("expected stock=3, got %+v", parsed)
	}
}
