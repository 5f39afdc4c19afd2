package misc

// Status is the envelope returned by every handler that doesn't have a
// richer payload of its own.
type Status struct {
	Status string `json:"status"`
	Msg    string `json:"msg,omitempty"`
	Id     string `json:"id,omitempty"`
	Code   int    `json:"code,omitempty"`
}

func StatusOK(id string) Status {
	return Status{Status: "success", Id: id}
}

func StatusErr(msg string) Status {
	return Status{Status: "error", Msg: msg}
}
