package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

const (
	barcodeDefaultWidth  = 300
	barcodeDefaultHeight = 100
	barcodeSheetPadding  = 16

	// Upper bounds on caller-supplied dimensions. The sheet is held in
	// memory as one RGBA image, so unchecked inputs translate directly
	// into allocation size.
	BarcodeMaxCellSize    = 1000
	BarcodeMaxSheetValues = 500
	BarcodeMaxColumns     = 20
)

// BarcodePNG renders value as a Code 128 symbol.
func BarcodePNG(value string, width, height int) ([]byte, error) {
	if value == "" {
		return nil, NewValidationError("barcode value is required")
	}
	if width <= 0 {
		width = barcodeDefaultWidth
	}
	if height <= 0 {
		height = barcodeDefaultHeight
	}
	if width > BarcodeMaxCellSize || height > BarcodeMaxCellSize {
		return nil, NewValidationError(fmt.Sprintf("barcode dimensions must not exceed %d pixels", BarcodeMaxCellSize))
	}

	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BarcodeSheetPNG composes a printable grid of Code 128 symbols, one cell per
// value repetition. Sheet composition is plain image blitting; each row holds
// `columns` cells.
func BarcodeSheetPNG(values []string, columns, cellWidth, cellHeight int) ([]byte, error) {
	if len(values) == 0 {
		return nil, NewValidationError("at least one barcode value is required")
	}
	if len(values) > BarcodeMaxSheetValues {
		return nil, NewValidationError(fmt.Sprintf("a sheet holds at most %d barcodes", BarcodeMaxSheetValues))
	}
	if columns <= 0 {
		columns = 3
	}
	if columns > BarcodeMaxColumns {
		return nil, NewValidationError(fmt.Sprintf("columns must not exceed %d", BarcodeMaxColumns))
	}
	if cellWidth <= 0 {
		cellWidth = barcodeDefaultWidth
	}
	if cellHeight <= 0 {
		cellHeight = barcodeDefaultHeight
	}
	if cellWidth > BarcodeMaxCellSize || cellHeight > BarcodeMaxCellSize {
		return nil, NewValidationError(fmt.Sprintf("cell dimensions must not exceed %d pixels", BarcodeMaxCellSize))
	}

	rows := (len(values) + columns - 1) / columns
	sheetW := columns*(cellWidth+barcodeSheetPadding) + barcodeSheetPadding
	sheetH := rows*(cellHeight+barcodeSheetPadding) + barcodeSheetPadding

	sheet := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))
	draw.Draw(sheet, sheet.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	for i, value := range values {
		code, err := code128.Encode(value)
		if err != nil {
			return nil, err
		}
		scaled, err := barcode.Scale(code, cellWidth, cellHeight)
		if err != nil {
			return nil, err
		}

		col := i % columns
		row := i / columns
		x := barcodeSheetPadding + col*(cellWidth+barcodeSheetPadding)
		y := barcodeSheetPadding + row*(cellHeight+barcodeSheetPadding)
		cell := image.Rect(x, y, x+cellWidth, y+cellHeight)
		draw.Draw(sheet, cell, scaled, scaled.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
