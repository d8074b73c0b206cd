package utils_test

import (
	"bytes"
	"image/png"
	"testing"

	"bitbucket.org/mmdatafocus/store_backend/utils"
)

func TestBarcodePNG(t *testing.T) {
	data, err := utils.BarcodePNG("80000001", 300, 100)
	if err != nil {
		t.Fatalf("BarcodePNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 100 {
		t.Fatalf("bounds = %v, want 300x100", img.Bounds())
	}
}

func TestBarcodePNGDefaultsAndEmptyValue(t *testing.T) {
	if _, err := utils.BarcodePNG("", 0, 0); err == nil {
		t.Fatal("expected error for empty value")
	}

	data, err := utils.BarcodePNG("80000002", 0, 0)
	if err != nil {
		t.Fatalf("BarcodePNG defaults: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 100 {
		t.Fatalf("default bounds = %v, want 300x100", img.Bounds())
	}
}

func TestBarcodeSheetPNG(t *testing.T) {
	values := []string{"80000001", "80000001", "80000002", "80000002", "80000003"}
	data, err := utils.BarcodeSheetPNG(values, 2, 200, 80)
	if err != nil {
		t.Fatalf("BarcodeSheetPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 2 columns of 200px plus 16px padding around and between
	wantW := 2*(200+16) + 16
	// 3 rows of 80px
	wantH := 3*(80+16) + 16
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Fatalf("bounds = %v, want %dx%d", img.Bounds(), wantW, wantH)
	}

	if _, err := utils.BarcodeSheetPNG(nil, 3, 0, 0); err == nil {
		t.Fatal("expected error for empty value list")
	}
}

func TestBarcodeDimensionLimits(t *testing.T) {
	if _, err := utils.BarcodePNG("80000001", utils.BarcodeMaxCellSize+1, 100); !utils.IsValidationError(err) {
		t.Fatalf("oversized width should fail validation, got %v", err)
	}
	if _, err := utils.BarcodePNG("80000001", 300, utils.BarcodeMaxCellSize+1); !utils.IsValidationError(err) {
		t.Fatalf("oversized height should fail validation, got %v", err)
	}

	if _, err := utils.BarcodeSheetPNG([]string{"80000001"}, 3, utils.BarcodeMaxCellSize+1, 80); !utils.IsValidationError(err) {
		t.Fatalf("oversized cell width should fail validation, got %v", err)
	}
	if _, err := utils.BarcodeSheetPNG([]string{"80000001"}, utils.BarcodeMaxColumns+1, 200, 80); !utils.IsValidationError(err) {
		t.Fatalf("oversized column count should fail validation, got %v", err)
	}

	values := make([]string, utils.BarcodeMaxSheetValues+1)
	for i := range values {
		values[i] = "80000001"
	}
	if _, err := utils.BarcodeSheetPNG(values, 3, 100, 40); !utils.IsValidationError(err) {
		t.Fatalf("oversized value list should fail validation, got %v", err)
	}
}
