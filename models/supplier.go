package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"gorm.io/gorm"
)

// SupplierIdBase anchors the numeric supplier sequence; the first supplier
// gets 1001.
const SupplierIdBase = 1000

type Supplier struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ShopName      string    `gorm:"size:100;not null;uniqueIndex" json:"shop_name"`
	ContactPerson string    `gorm:"size:100" json:"contact_person"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Email         string    `gorm:"size:100" json:"email"`
	Address       string    `gorm:"size:255" json:"address"`
	Archived      *bool     `gorm:"not null;default:false" json:"archived"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	ShopName      string `json:"shop_name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
}

type UpdateSupplierInput struct {
	ShopName      *string `json:"shop_name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
}

func validateSupplierUnique(ctx context.Context, shopName string, email string, exceptId int) error {
	if err := utils.ValidateUnique[Supplier](ctx, "shop_name", shopName, exceptId); err != nil {
		return errors.New("a supplier with this shop name already exists")
	}
	if email != "" {
		if err := utils.ValidateUnique[Supplier](ctx, "email", email, exceptId); err != nil {
			return errors.New("a supplier with this email already exists")
		}
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	db := config.GetDB()

	if err := validateSupplierUnique(ctx, input.ShopName, input.Email, 0); err != nil {
		return nil, err
	}

	phone := input.Phone
	if phone != "" {
		normalized, err := utils.NormalizePhone(phone)
		if err != nil {
			return nil, errors.New("invalid phone number")
		}
		phone = normalized
	}

	supplier := Supplier{
		ShopName:      input.ShopName,
		ContactPerson: input.ContactPerson,
		Phone:         phone,
		Email:         input.Email,
		Address:       input.Address,
		Archived:      utils.NewFalse(),
	}

	// next id = max(existing) + 1, assigned inside the insert transaction
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nextId int
		if err := tx.Raw("SELECT COALESCE(MAX(id), ?) + 1 FROM suppliers", SupplierIdBase).Scan(&nextId).Error; err != nil {
			return err
		}
		supplier.ID = nextId
		return tx.Create(&supplier).Error
	})
	if err != nil {
		return nil, err
	}

	if err := utils.InvalidateList[Supplier](); err != nil {
		config.LogError(config.GetLogger(), "supplier.go", "CreateSupplier", "InvalidateList", supplier.ID, err)
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *UpdateSupplierInput) (*Supplier, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Supplier](ctx, id); err != nil {
		return nil, errors.New("supplier not found")
	}

	fields := map[string]interface{}{}
	if input.ShopName != nil {
		if err := utils.ValidateUnique[Supplier](ctx, "shop_name", *input.ShopName, id); err != nil {
			return nil, errors.New("a supplier with this shop name already exists")
		}
		fields["shop_name"] = *input.ShopName
	}
	if input.ContactPerson != nil {
		fields["contact_person"] = *input.ContactPerson
	}
	if input.Phone != nil {
		phone := *input.Phone
		if phone != "" {
			normalized, err := utils.NormalizePhone(phone)
			if err != nil {
				return nil, errors.New("invalid phone number")
			}
			phone = normalized
		}
		fields["phone"] = phone
	}
	if input.Email != nil {
		if *input.Email != "" {
			if err := utils.ValidateUnique[Supplier](ctx, "email", *input.Email, id); err != nil {
				return nil, errors.New("a supplier with this email already exists")
			}
		}
		fields["email"] = *input.Email
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}

	if len(fields) > 0 {
		if err := db.WithContext(ctx).Model(&Supplier{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
		if err := utils.InvalidateList[Supplier](); err != nil {
			config.LogError(config.GetLogger(), "supplier.go", "UpdateSupplier", "InvalidateList", id, err)
		}
	}
	return GetSupplier(ctx, id)
}

func SetSupplierArchived(ctx context.Context, id int, archived bool) (*Supplier, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Supplier](ctx, id); err != nil {
		return nil, errors.New("supplier not found")
	}
	if err := db.WithContext(ctx).Model(&Supplier{}).Where("id = ?", id).Update("archived", archived).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[Supplier](); err != nil {
		config.LogError(config.GetLogger(), "supplier.go", "SetSupplierArchived", "InvalidateList", id, err)
	}
	return GetSupplier(ctx, id)
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func GetSuppliers(ctx context.Context) ([]*Supplier, error) {
	return utils.ListModels[Supplier](ctx)
}
