package provider

// Response shapes of the amazon-helper catalog API. Only the paths the
// normalizer reads are mapped.

type ItemsResponse struct {
	ItemsResult ItemsResult `json:"ItemsResult"`
}

type ItemsResult struct {
	Items []Item `json:"Items"`
}

type Item struct {
	ASIN            string           `json:"ASIN"`
	ItemInfo        *ItemInfo        `json:"ItemInfo"`
	Offers          *Offers          `json:"Offers"`
	CustomerReviews *CustomerReviews `json:"CustomerReviews"`
	Images          *Images          `json:"Images"`
}

type ItemInfo struct {
	Title      *DisplayValue  `json:"Title"`
	ByLineInfo *ByLineInfo    `json:"ByLineInfo"`
	Features   *DisplayValues `json:"Features"`
}

type DisplayValue struct {
	DisplayValue string `json:"DisplayValue"`
}

type DisplayValues struct {
	DisplayValues []string `json:"DisplayValues"`
}

type ByLineInfo struct {
	Brand        *DisplayValue `json:"Brand"`
	Manufacturer *DisplayValue `json:"Manufacturer"`
}

type Offers struct {
	Listings []Listing `json:"Listings"`
}

type Listing struct {
	Price *ListingPrice `json:"Price"`
}

type ListingPrice struct {
	DisplayAmount string `json:"DisplayAmount"`
}

type CustomerReviews struct {
	StarRating *StarRating `json:"StarRating"`
	Count      int         `json:"Count"`
}

type StarRating struct {
	Value float64 `json:"Value"`
}

type Images struct {
	Primary   *ImageSet  `json:"Primary"`
	Variants  []ImageSet `json:"Variants"`
	Alternate []ImageSet `json:"Alternate"`
}

type ImageSet struct {
	Large *ImageDetail `json:"Large"`
}

type ImageDetail struct {
	URL string `json:"URL"`
}
