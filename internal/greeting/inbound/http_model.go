package inbound

type DataResponse struct {
	Message string `json:"message"`
}

func (DataResponse) Enveloped() bool { return false }
