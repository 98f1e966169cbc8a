package metrics

// Options names the sales-frame columns the computations read. Defaults
// match the frame produced by internal/dataset; callers with differently
// shaped frames override per column.
type Options struct {
	PriceColumn        string
	OrderColumn        string
	DateColumn         string
	CustomerColumn     string
	CategoryColumn     string
	ProductColumn      string
	StatusColumn       string
	ScoreColumn        string
	DeliveryDaysColumn string
	SpeedColumn        string
	YearColumn         string
	MonthColumn        string
}

// Option overrides a single column name.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		PriceColumn:        "price",
		OrderColumn:        "order_id",
		DateColumn:         "order_purchase_timestamp",
		CustomerColumn:     "customer_unique_id",
		CategoryColumn:     "product_category_name",
		ProductColumn:      "product_id",
		StatusColumn:       "order_status",
		ScoreColumn:        "review_score",
		DeliveryDaysColumn: "delivery_days",
		SpeedColumn:        "delivery_speed",
		YearColumn:         "purchase_year",
		MonthColumn:        "purchase_month",
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithPriceColumn(name string) Option {
	return func(o *Options) { o.PriceColumn = name }
}

func WithOrderColumn(name string) Option {
	return func(o *Options) { o.OrderColumn = name }
}

func WithDateColumn(name string) Option {
	return func(o *Options) { o.DateColumn = name }
}

func WithCustomerColumn(name string) Option {
	return func(o *Options) { o.CustomerColumn = name }
}

func WithCategoryColumn(name string) Option {
	return func(o *Options) { o.CategoryColumn = name }
}

func WithStatusColumn(name string) Option {
	return func(o *Options) { o.StatusColumn = name }
}
