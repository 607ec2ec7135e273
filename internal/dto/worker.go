package dto

type WorkerProfileRequestDTO struct {
	DisplayName string `json:"display_name" validate:"required,max=120"`
	Headline    string `json:"headline" validate:"max=200"`
	Bio         string `json:"bio"`
	PhotoKey    string `json:"photo_key"`
	Active      bool   `json:"active"`
}

type WorkerBlockDTO struct {
	Kind    string `json:"kind" example:"experience"`
	Content string `json:"content"`
}

type WorkerProfileResponseDTO struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	Headline    string           `json:"headline"`
	Bio         string           `json:"bio"`
	PhotoURL    string           `json:"photo_url,omitempty"`
	Active      bool             `json:"active"`
	Blocks      []WorkerBlockDTO `json:"blocks"`
}
