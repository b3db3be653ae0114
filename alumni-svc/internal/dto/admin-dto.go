package dto

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=BASE_MEMBER MODERATOR SUPER_MODERATOR"`
}

type AlumniListQuery struct {
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
	Department string `query:"department"`
	Verified   *bool  `query:"verified"`
}

type AlumniListResponse struct {
	Items []AlumniProfileResponse `json:"items"`
	Total int64                   `json:"total"`
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	Total         int64        `json:"total"`
	Verified      int64        `json:"verified"`
	Unverified    int64        `json:"unverified"`
	ByDepartment  []GroupCount `json:"byDepartment"`
	ByPassingYear []GroupCount `json:"byPassingYear"`
	ByRole        []GroupCount `json:"byRole"`
}

type MaintenanceRequest struct {
	IsEnabled *bool  `json:"isEnabled" validate:"required"`
	Message   string `json:"message" validate:"max=1000"`
}

type MaintenanceStatusResponse struct {
	IsEnabled bool   `json:"isEnabled"`
	Message   string `json:"message"`
}
