package dto

type LocationDTO struct {
	Lat       float64  `json:"lat" validate:"min=-90,max=90"`
	Lng       float64  `json:"lng" validate:"min=-180,max=180"`
	AccuracyM *float64 `json:"accuracy,omitempty"`
}

type HeartbeatRequest struct {
	// granted | denied | prompt (mengikuti Permissions API browser)
	PermissionState string       `json:"permission_state" validate:"required,oneof=granted denied prompt"`
	Location        *LocationDTO `json:"location,omitempty"`
}

type HeartbeatResponse struct {
	Ok       bool `json:"ok"`
	InBranch bool `json:"in_branch"`
	GpsOk    bool `json:"gps_ok"`
}
