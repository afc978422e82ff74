package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/BerniceZTT/cbam_end/models"
)

// sampleGood CBAM good with typical specific embedded emissions
type sampleGood struct {
	CNCode      string
	DirectSEE   float64
	IndirectSEE float64
}

var sampleGoods = []sampleGood{
	{CNCode: "72081000", DirectSEE: 1.9, IndirectSEE: 0.3},   // hot-rolled steel
	{CNCode: "76011000", DirectSEE: 1.6, IndirectSEE: 6.8},   // unwrought aluminium
	{CNCode: "25231000", DirectSEE: 0.85, IndirectSEE: 0.05}, // cement clinker
	{CNCode: "31022100", DirectSEE: 2.4, IndirectSEE: 0.2},   // ammonium sulphate
	{CNCode: "73181500", DirectSEE: 2.1, IndirectSEE: 0.5},   // screws and bolts
}

var sampleCompanies = []struct {
	Name    string
	Country string
}{
	{"Anhui Steel Works", "CN"},
	{"Bosphorus Metal", "TR"},
	{"Chennai Castings", "IN"},
	{"Delta Aluminium", "EG"},
	{"Eastern Cement", "UA"},
	{"Fjord Fertilizer", "NO"},
	{"Guangdong Fasteners", "CN"},
	{"Hanoi Rolling Mill", "VN"},
}

// SampleOptions sample data parameters
type SampleOptions struct {
	Seed             int64
	Suppliers        int
	ImportsPerSupply int
	From             Quarter
	Quarters         int
}

// DefaultSampleOptions sample covering the four quarters of 2024
var DefaultSampleOptions = SampleOptions{
	Seed:             42,
	Suppliers:        8,
	ImportsPerSupply: 6,
	From:             Quarter{Year: 2024, Number: 1},
	Quarters:         4,
}

// GenerateSampleData builds deterministic suppliers and imports for demos and tests.
// Ids are assigned here so imports can reference their supplier.
func GenerateSampleData(opts SampleOptions) ([]models.Supplier, []models.GoodsImport) {
	if opts.Suppliers <= 0 {
		opts.Suppliers = DefaultSampleOptions.Suppliers
	}
	if opts.ImportsPerSupply <= 0 {
		opts.ImportsPerSupply = DefaultSampleOptions.ImportsPerSupply
	}
	if opts.Quarters <= 0 {
		opts.Quarters = DefaultSampleOptions.Quarters
	}
	if opts.From.Number == 0 {
		opts.From = DefaultSampleOptions.From
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	idSource := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("cbam-sample-%d", opts.Seed)))
	now := time.Now().UTC()

	suppliers := make([]models.Supplier, 0, opts.Suppliers)
	for i := 0; i < opts.Suppliers; i++ {
		company := sampleCompanies[i%len(sampleCompanies)]
		name := company.Name
		if i >= len(sampleCompanies) {
			name = fmt.Sprintf("%s %d", company.Name, i/len(sampleCompanies)+1)
		}
		suppliers = append(suppliers, models.Supplier{
			ID:            uuid.NewSHA1(idSource, []byte(fmt.Sprintf("supplier-%d", i))).String(),
			Name:          name,
			Country:       company.Country,
			ContactPerson: fmt.Sprintf("Contact %d", i+1),
			ContactEmail:  fmt.Sprintf("emissions%d@supplier.example", i+1),
			Status:        models.SupplierStatuses[rng.Intn(len(models.SupplierStatuses))],
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	var imports []models.GoodsImport
	for i, s := range suppliers {
		good := sampleGoods[i%len(sampleGoods)]
		for j := 0; j < opts.ImportsPerSupply; j++ {
			q := opts.From
			for k := rng.Intn(opts.Quarters); k > 0; k-- {
				q = q.Next()
			}
			date := q.Start().AddDate(0, rng.Intn(3), rng.Intn(28))
			row := models.GoodsImport{
				ID:               uuid.NewSHA1(idSource, []byte(fmt.Sprintf("import-%d-%d", i, j))).String(),
				SupplierID:       s.ID,
				CNCode:           good.CNCode,
				ManufacturerName: s.Name,
				Quantity:         float64(10 + rng.Intn(490)),
				DirectSEE:        good.DirectSEE,
				IndirectSEE:      good.IndirectSEE,
				Date:             date,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			NormalizeImport(&row)
			imports = append(imports, row)
		}
	}
	return suppliers, imports
}
