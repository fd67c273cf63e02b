package posts

type CreatePostRequest struct {
	Caption  string `json:"caption"`
	MediaURL string `json:"media_url"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}
