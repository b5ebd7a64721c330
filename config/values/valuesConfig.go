package values

// SyncValues - параметры импорта каталога.
type SyncValues struct {
	PageSize       int    `yaml:"page-size"`
	UploadDir      string `yaml:"upload-dir"`
	BrandRootSlug  string `yaml:"brand-root-slug"`
	BrandRootLabel string `yaml:"brand-root-label"`
	ProductStatus  string `yaml:"product-status"`
}

// RateValues ограничивает частоту запросов к внешним API.
type RateValues struct {
	RequestsPerSecond float64 `yaml:"rps"`
	Burst             int     `yaml:"burst"`
}

const (
	DefaultPageSize       = 300
	DefaultUploadDir      = "./uploads"
	DefaultBrandRootSlug  = "brand"
	DefaultBrandRootLabel = "Бренд"
	DefaultProductStatus  = "publish"
	DefaultRPS            = 5
	DefaultBurst          = 5
)

func (v *SyncValues) ApplyDefaults() {
	if v.PageSize <= 0 {
		v.PageSize = DefaultPageSize
	}
	if v.UploadDir == "" {
		v.UploadDir = DefaultUploadDir
	}
	if v.BrandRootSlug == "" {
		v.BrandRootSlug = DefaultBrandRootSlug
	}
	if v.BrandRootLabel == "" {
		v.BrandRootLabel = DefaultBrandRootLabel
	}
	if v.ProductStatus == "" {
		v.ProductStatus = DefaultProductStatus
	}
}

func (v *RateValues) ApplyDefaults() {
	if v.RequestsPerSecond <= 0 {
		v.RequestsPerSecond = DefaultRPS
	}
	if v.Burst <= 0 {
		v.Burst = DefaultBurst
	}
}
