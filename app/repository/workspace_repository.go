package repository

import (
	"github.com/thangnm/rentacc/app/models"
	"gorm.io/gorm"
)

// workspaceRepository implements the WorkspaceRepository interface
type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new workspace repository instance
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) Create(workspace *models.Workspace) error {
	return r.db.Create(workspace).Error
}

func (r *workspaceRepository) GetByID(id uint) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.First(&workspace, id).Error
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// GetByIDWithAdminAccount loads the workspace with its admin account and the
// admin account's underlying account, for type and ownership checks.
func (r *workspaceRepository) GetByIDWithAdminAccount(id uint) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.Preload("AdminAccount").Preload("AdminAccount.Account").First(&workspace, id).Error
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *workspaceRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Workspace{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
