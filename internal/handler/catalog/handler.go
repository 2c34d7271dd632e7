package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mylife/backend/internal/model/questionary"
	"github.com/zhouzirui/mylife/backend/pkg/utils"
)

// Handler 问题目录的HTTP处理器
type Handler struct {
	repo questionary.Repository
}

// New 创建目录处理器
func New(repo questionary.Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes 注册目录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sections", h.handleListSections)
}

type sectionView struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Themes      []string `json:"themes"`
}

// handleListSections 列出所有分区及其主题，不暴露问题本身
func (h *Handler) handleListSections(w http.ResponseWriter, r *http.Request) {
	names := h.repo.ListSections()
	sections := make([]sectionView, 0, len(names))
	for _, name := range names {
		sections = append(sections, sectionView{
			Name:        name,
			Description: h.repo.DescribeSection(name),
			Themes:      h.repo.ListThemes(name),
		})
	}
	utils.RespondJSON(w, http.StatusOK, sections)
}
