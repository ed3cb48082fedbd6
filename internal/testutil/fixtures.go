package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// HolidaysJSON is a small response in the shape of the public holidays API.
const HolidaysJSON = `[
  {"date":"2017-01-01","localName":"Confraternização Universal","name":"New Year's Day","countryCode":"BR","fixed":true,"global":true,"counties":null,"launchYear":null,"types":["Public"]},
  {"date":"2017-11-15","localName":"Proclamação da República","name":"Republic Proclamation Day","countryCode":"BR","fixed":true,"global":true,"counties":null,"launchYear":null,"types":["Public"]}
]`

// DatasetFiles is a minimal but consistent Olist dataset: two customers,
// three orders (two delivered), items, payments and reviews.
var DatasetFiles = map[string]string{
	"olist_customers_dataset.csv": `customer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state
c1,u1,01037,sao paulo,SP
c2,u2,20040,rio de janeiro,RJ
`,
	"olist_geolocation_dataset.csv": `geolocation_zip_code_prefix,geolocation_lat,geolocation_lng,geolocation_city,geolocation_state
01037,-23.54562128115268,-46.63929204800168,sao paulo,SP
`,
	"olist_order_items_dataset.csv": `order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value
o1,1,p1,s1,2017-01-05 10:00:00,100.0,10.5
o2,1,p2,s1,2017-11-20 12:00:00,50.0,7.25
o3,1,p1,s1,2018-03-02 09:30:00,80.0,9.0
`,
	"olist_order_payments_dataset.csv": `order_id,payment_sequential,payment_type,payment_installments,payment_value
o1,1,credit_card,1,110.5
o2,1,boleto,1,57.25
o3,1,credit_card,2,89.0
`,
	"olist_order_reviews_dataset.csv": `review_id,order_id,review_score,review_comment_title,review_comment_message,review_creation_date,review_answer_timestamp
r1,o1,5,,"Chegou antes, ótimo",2017-01-10 00:00:00,2017-01-11 03:00:00
r2,o2,4,,,2017-11-30 00:00:00,not-a-date
`,
	"olist_orders_dataset.csv": `order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date
o1,c1,delivered,2017-01-01 10:00:00,2017-01-01 11:00:00,2017-01-03 10:00:00,2017-01-08 10:00:00,2017-01-20 00:00:00
o2,c2,delivered,2017-11-15 12:00:00,2017-11-15 12:30:00,2017-11-17 10:00:00,2017-11-25 10:00:00,2017-11-30 00:00:00
o3,c1,shipped,2018-03-01 09:00:00,2018-03-01 09:10:00,2018-03-02 10:00:00,,2018-03-20 00:00:00
`,
	"olist_products_dataset.csv": `product_id,product_category_name,product_name_lenght,product_description_lenght,product_photos_qty,product_weight_g,product_length_cm,product_height_cm,product_width_cm
p1,beleza_saude,40,287,1,225,16,10,14
p2,informatica_acessorios,44,276,1,1000,30,18,20
`,
	"olist_sellers_dataset.csv": `seller_id,seller_zip_code_prefix,seller_city,seller_state
s1,13023,campinas,SP
`,
	"product_category_name_translation.csv": `product_category_name,product_category_name_english
beleza_saude,health_beauty
informatica_acessorios,computers_accessories
`,
}

// WriteDataset writes DatasetFiles into a new temporary directory and
// returns its path.
func WriteDataset(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range DatasetFiles {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// HolidayServer is a fake holidays API.
type HolidayServer struct {
	*httptest.Server
	Requests atomic.Int64
	LastPath atomic.Value
}

// NewHolidayServer serves body with status for every request.
// The server is closed when the test ends.
func NewHolidayServer(t testing.TB, status int, body string) *HolidayServer {
	t.Helper()
	hs := &HolidayServer{}
	hs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hs.Requests.Add(1)
		hs.LastPath.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(hs.Close)
	return hs
}

// Path returns the path of the most recent request.
func (hs *HolidayServer) Path() string {
	p, _ := hs.LastPath.Load().(string)
	return p
}
