package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// catalogFile formato del archivo de catálogo para el modo en memoria.
type catalogFile struct {
	Products []struct {
		ID           string          `json:"id"`
		SKU          string          `json:"sku"`
		Name         string          `json:"name"`
		Cost         decimal.Decimal `json:"cost"`
		MinimumStock decimal.Decimal `json:"minimum_stock"`
	} `json:"products"`
	Warehouses []struct {
		ID                 string          `json:"id"`
		Name               string          `json:"name"`
		AllowNegativeStock bool            `json:"allow_negative_stock"`
		StockFloor         decimal.Decimal `json:"stock_floor"`
	} `json:"warehouses"`
}

// LoadCatalogFile carga productos y bodegas desde un archivo JSON.
func (s *Store) LoadCatalogFile(path string) (products, warehouses int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("memory: abrir catálogo: %w", err)
	}
	defer f.Close()
	return s.LoadCatalog(f)
}

// LoadCatalog registra el catálogo leído de r. Nada se registra si alguna entrada es inválida.
func (s *Store) LoadCatalog(r io.Reader) (products, warehouses int, err error) {
	var cf catalogFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cf); err != nil {
		return 0, 0, fmt.Errorf("memory: leer catálogo: %w", err)
	}
	for i, p := range cf.Products {
		if p.ID == "" || p.SKU == "" {
			return 0, 0, fmt.Errorf("memory: producto %d sin id o sku", i)
		}
		if p.Cost.IsNegative() {
			return 0, 0, fmt.Errorf("memory: producto %s con costo negativo", p.ID)
		}
	}
	for i, w := range cf.Warehouses {
		if w.ID == "" {
			return 0, 0, fmt.Errorf("memory: bodega %d sin id", i)
		}
	}

	now := time.Now().UTC()
	for _, p := range cf.Products {
		s.PutProduct(entity.Product{
			ID: p.ID, SKU: p.SKU, Name: p.Name, Cost: p.Cost, MinimumStock: p.MinimumStock,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	for _, w := range cf.Warehouses {
		s.PutWarehouse(entity.Warehouse{
			ID: w.ID, Name: w.Name, AllowNegativeStock: w.AllowNegativeStock, StockFloor: w.StockFloor,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	return len(cf.Products), len(cf.Warehouses), nil
}
