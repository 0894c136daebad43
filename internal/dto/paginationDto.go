package dto

// PageQuery is the limit/offset pagination contract shared by every list
// endpoint.
type PageQuery struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// Normalize clamps limit to 1..100 and offset to >= 0.
func (q *PageQuery) Normalize() {
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}
