package engine

import "testing"

func TestVerifyCatalog(t *testing.T) {
	if err := VerifyCatalog(); err != nil {
		t.Fatalf("VerifyCatalog() = %v, want nil", err)
	}
}

func TestModuleByNameRejectsUnknown(t *testing.T) {
	if _, ok := ModuleByName("Modulo inventado"); ok {
		t.Fatalf("ModuleByName accepted a name outside the catalog")
	}
	if _, ok := ModuleByName("Bot de ventas para WhatsApp"); !ok {
		t.Fatalf("ModuleByName rejected a catalog name")
	}
}

func TestDeclIndexFollowsDeclarationOrder(t *testing.T) {
	for i, m := range Catalog() {
		if got := declIndex(m.ID); got != i {
			t.Errorf("declIndex(%q) = %d, want %d", m.ID, got, i)
		}
	}
}

func TestPriorityExpansionCoversAllKeys(t *testing.T) {
	keys := []string{
		PriorityWhatsAppSales,
		PriorityInventoryData,
		PriorityDashboards,
		PriorityAdminWork,
		PrioritySmartDocuments,
		PriorityReconciliation,
	}
	for _, key := range keys {
		if len(priorityExpansion[key]) == 0 {
			t.Errorf("priority %q expands to nothing", key)
		}
	}
}
