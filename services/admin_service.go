package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

// InterfaceAdminService defines the admin service interface
type InterfaceAdminService interface {
	Authenticate(username, password string) (*models.Admin, error)
	GetAdminByID(id uint) (*models.Admin, error)
	EnsureDefaultAdmin() error
}

// AdminService 提供管理员相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// Authenticate 校验用户名密码，成功返回管理员
func (s *AdminService) Authenticate(username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户名或密码错误")
		}
		return nil, err
	}

	if !admin.CheckPassword(password) {
		return nil, errors.New("用户名或密码错误")
	}

	if admin.Status != "active" {
		return nil, errors.New("账户已被禁用")
	}

	return &admin, nil
}

// GetAdminByID 根据ID获取管理员
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("管理员不存在")
		}
		return nil, err
	}
	return &admin, nil
}

// EnsureDefaultAdmin 确保系统中至少有一个管理员账户
func (s *AdminService) EnsureDefaultAdmin() error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := models.HashPassword(s.Config.DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Username: "admin",
		Password: hashed,
		Role:     "super_admin",
		Status:   "active",
	}
	if err := s.DB.Create(admin).Error; err != nil {
		return err
	}

	config.Info("已创建默认管理员账户: admin")
	return nil
}
