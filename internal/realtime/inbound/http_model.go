package inbound

type ListFeedsResponse struct {
	Feeds []string `json:"feeds"`
}
