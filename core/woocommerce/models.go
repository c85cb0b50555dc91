package woocommerce

// Ref references a taxonomy term (category or tag) by id.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// Image is a product image as stored by the catalog.
type Image struct {
	ID  int    `json:"id,omitempty"`
	Src string `json:"src"`
}

// Product is a catalog product as returned by the products endpoint.
type Product struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	SKU              string  `json:"sku"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description"`
	RegularPrice     string  `json:"regular_price"`
	Images           []Image `json:"images"`
	Categories       []Ref   `json:"categories"`
	Tags             []Ref   `json:"tags"`
}

// CategoryIDs returns the ids of the product categories.
func (p Product) CategoryIDs() []int {
	return refIDs(p.Categories)
}

// TagIDs returns the ids of the product tags.
func (p Product) TagIDs() []int {
	return refIDs(p.Tags)
}

// ImageSources returns the image URLs of the product.
func (p Product) ImageSources() []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img.Src)
	}
	return out
}

func refIDs(refs []Ref) []int {
	out := make([]int, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

// ProductInput is the body of one create or update item in a batch request.
type ProductInput struct {
	ID                int     `json:"id,omitempty"`
	Name              string  `json:"name"`
	Type              string  `json:"type,omitempty"`
	CatalogVisibility string  `json:"catalog_visibility,omitempty"`
	Description       string  `json:"description"`
	ShortDescription  *string `json:"short_description,omitempty"`
	SKU               string  `json:"sku,omitempty"`
	RegularPrice      string  `json:"regular_price"`
	Virtual           *bool   `json:"virtual,omitempty"`
	Images            []Image `json:"images"`
	Categories        []Ref   `json:"categories"`
	Tags              []Ref   `json:"tags"`
}

// batchRequest is the body of POST /products/batch.
type batchRequest struct {
	Create []ProductInput `json:"create,omitempty"`
	Update []ProductInput `json:"update,omitempty"`
}

// BatchItem is one per-item result of a batch request.
type BatchItem struct {
	ID    int        `json:"id"`
	SKU   string     `json:"sku"`
	Error *ItemError `json:"error,omitempty"`
}

// ItemError is the error reported for a single batch item.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// batchResponse is the response of POST /products/batch.
type batchResponse struct {
	Create []BatchItem `json:"create"`
	Update []BatchItem `json:"update"`
}

// BatchResult summarizes a batch call.
type BatchResult struct {
	// Succeeded holds the items the catalog accepted.
	Succeeded []BatchItem
	// Failed holds the items the catalog rejected individually.
	Failed []BatchItem
}

func splitBatchItems(items []BatchItem) BatchResult {
	var res BatchResult
	for _, item := range items {
		if item.Error != nil {
			res.Failed = append(res.Failed, item)
			continue
		}
		res.Succeeded = append(res.Succeeded, item)
	}
	return res
}
