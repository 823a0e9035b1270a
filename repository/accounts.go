package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"broomate_server/models"
)

func (s *DynamoStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	return s.DB.PutItem(ctx, models.TenantsTable, tenant)
}

func (s *DynamoStore) CreateLandlord(ctx context.Context, landlord *models.Landlord) error {
	return s.DB.PutItem(ctx, models.LandlordsTable, landlord)
}

func (s *DynamoStore) FindTenantByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	found, err := s.DB.GetItem(ctx, models.TenantsTable, idKey(id), &tenant)
	if err != nil || !found {
		return nil, err
	}
	return &tenant, nil
}

func (s *DynamoStore) FindLandlordByID(ctx context.Context, id string) (*models.Landlord, error) {
	var landlord models.Landlord
	found, err := s.DB.GetItem(ctx, models.LandlordsTable, idKey(id), &landlord)
	if err != nil || !found {
		return nil, err
	}
	return &landlord, nil
}

// FindAccountByID resolves an id regardless of role, checking tenants
// first. Conversation rosters mix both roles, so callers cannot know the
// role up front.
func (s *DynamoStore) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	tenant, err := s.FindTenantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		return &tenant.Account, nil
	}
	landlord, err := s.FindLandlordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if landlord != nil {
		return &landlord.Account, nil
	}
	return nil, nil
}

func (s *DynamoStore) FindTenantByEmail(ctx context.Context, email string) (*models.Tenant, error) {
	var tenants []models.Tenant
	err := s.DB.Scan(ctx, models.TenantsTable, "email = :email",
		map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		}, nil, &tenants)
	if err != nil || len(tenants) == 0 {
		return nil, err
	}
	return &tenants[0], nil
}

func (s *DynamoStore) FindLandlordByEmail(ctx context.Context, email string) (*models.Landlord, error) {
	var landlords []models.Landlord
	err := s.DB.Scan(ctx, models.LandlordsTable, "email = :email",
		map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		}, nil, &landlords)
	if err != nil || len(landlords) == 0 {
		return nil, err
	}
	return &landlords[0], nil
}

func (s *DynamoStore) FindActiveTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.DB.Scan(ctx, models.TenantsTable, "active = :active",
		map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
		}, nil, &tenants)
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

func (s *DynamoStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	return s.DB.PutItem(ctx, models.TenantsTable, tenant)
}

func (s *DynamoStore) UpdateLandlord(ctx context.Context, landlord *models.Landlord) error {
	return s.DB.PutItem(ctx, models.LandlordsTable, landlord)
}
