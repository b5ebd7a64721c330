package woocommerce

import (
	"errors"
	"io"

	"golang.org/x/time/rate"

	"wpbreez_sync/config"
	"wpbreez_sync/internal/catalog"
	"wpbreez_sync/pkg/business/service"
)

// Store - каталог магазина поверх REST WooCommerce/WordPress.
type Store struct {
	*TermsClient
	*ProductsClient
	catalog.MediaLibrary
}

var _ catalog.Store = (*Store)(nil)

func NewStore(cfg config.WooCommerceConfig, writer io.Writer) (*Store, error) {
	if cfg.StoreURL == "" {
		return nil, errors.New("woocommerce.store_url is not set")
	}

	wcAuth := service.NewBasicAuth(cfg.ConsumerKey, cfg.ConsumerSecret)
	if wcAuth == nil {
		return nil, errors.New("woocommerce consumer key is not set")
	}

	// эндпоинты wp/v2 требуют пароль приложения; без него пробуем ключи WooCommerce
	var wpAuth service.AuthEngine = wcAuth
	if appAuth := service.NewBasicAuth(cfg.WPUser, cfg.WPAppPassword); appAuth != nil {
		wpAuth = appAuth
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Rate.RequestsPerSecond), cfg.Rate.Burst)

	var media catalog.MediaLibrary
	switch cfg.MediaTransport {
	case config.MediaTransportXMLRPC:
		media = NewXMLRPCMedia(cfg.StoreURL, cfg.WPUser, cfg.WPAppPassword, limiter, writer)
	default:
		media = NewMediaClient(cfg.StoreURL, wpAuth, limiter, writer)
	}

	return &Store{
		TermsClient:    NewTermsClient(cfg.StoreURL, wpAuth, limiter, writer),
		ProductsClient: NewProductsClient(cfg.StoreURL, wcAuth, limiter, writer),
		MediaLibrary:   media,
	}, nil
}
