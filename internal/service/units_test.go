package service_test

import (
	"math"
	"testing"

	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

func TestConvertQuantitySameDimension(t *testing.T) {
	t.Parallel()
	out, err := service.ConvertQuantity(100, model.UnitGram, model.UnitOunce)
	if err != nil {
		t.Fatalf("convert mass units: %v", err)
	}
	if math.Abs(out-3.5274) > 0.01 {
		t.Fatalf("expected ~3.53 oz, got %.4f", out)
	}

	out, err = service.ConvertQuantity(1, model.UnitCup, model.UnitTablespoon)
	if err != nil {
		t.Fatalf("convert volume units: %v", err)
	}
	if math.Abs(out-16) > 0.001 {
		t.Fatalf("expected 16 tbsp per cup, got %.4f", out)
	}
}

func TestConvertQuantityRejectsCrossDimension(t *testing.T) {
	t.Parallel()
	if _, err := service.ConvertQuantity(1, model.UnitCup, model.UnitGram); err == nil {
		t.Fatalf("expected volume to mass conversion to fail")
	}
	if _, err := service.ConvertQuantity(2, model.UnitPiece, model.UnitGram); err == nil {
		t.Fatalf("expected piece to mass conversion to fail")
	}
}

func TestConvertQuantityIdentity(t *testing.T) {
	t.Parallel()
	out, err := service.ConvertQuantity(3, model.UnitPiece, model.UnitPiece)
	if err != nil {
		t.Fatalf("convert identity: %v", err)
	}
	if out != 3 {
		t.Fatalf("expected 3, got %v", out)
	}
}
