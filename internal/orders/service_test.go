package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const sampleCSV = `Order ID,Order Date,Ship Date,Ship Mode,Customer ID,Customer Name,Segment,Country,City,State,Region,Product ID,Category,Sub-Category,Product Name,Sales,Quantity,Profit,Brand,Discount %,Cost
CA-2024-100001,1/5/2024,1/9/2024,Standard Class,CU-001,Brosina Hoffman,Consumer,United States,Seattle,Washington,West,TEC-PH-001,Technology,Phones,Acme Phone X,599.99,1,120.5,Acme,10,430
CA-2024-100001,1/5/2024,1/9/2024,Standard Class,CU-001,Brosina Hoffman,Consumer,United States,Seattle,Washington,West,TEC-AC-002,Technology,Accessories,Acme Charger,"1,299.00",2,30,Acme,0,900
CA-2024-100002,2/14/2024,2/18/2024,Second Class,CU-002,Zuschuss Carroll,Corporate,United States,Austin,Texas,Central,FUR-CH-003,Furniture,Chairs,Comfy Chair,180,1,45,Comfy,5,120
`

func TestImportCSVSuffixesRepeatedOrderIDs(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	n, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d rows, want 3", n)
	}

	refs := make(map[string]bool)
	for _, o := range repo.rows {
		refs[o.OrderRef] = true
	}
	for _, want := range []string{"CA-2024-100001-0", "CA-2024-100001-1", "CA-2024-100002-2"} {
		if !refs[want] {
			t.Fatalf("missing order ref %q in %v", want, refs)
		}
	}
}

func TestImportCSVParsesFieldsAndDates(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("import: %v", err)
	}

	var charger *Order
	for id := range repo.rows {
		o := repo.rows[id]
		if o.ProductName == "Acme Charger" {
			charger = &o
			break
		}
	}
	if charger == nil {
		t.Fatalf("charger row not imported")
	}
	if charger.Sales != 1299.00 {
		t.Fatalf("sales = %v, want comma-grouped price parsed as 1299", charger.Sales)
	}
	if charger.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", charger.Quantity)
	}
	if charger.OrderDate == nil || charger.OrderDate.Year() != 2024 || charger.OrderDate.Month() != 1 || charger.OrderDate.Day() != 5 {
		t.Fatalf("order date = %v, want 2024-01-05", charger.OrderDate)
	}
}

func TestImportCSVRequiresOrderIDColumn(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	csv := "Product Name,Sales\nWidget,10\n"
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(csv)); err == nil {
		t.Fatalf("expected error for csv without Order ID column")
	}
}

func TestImportCSVFlushesLargeFilesInBatches(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	var sb strings.Builder
	sb.WriteString("Order ID,Order Date,Product Name,Sales,Quantity\n")
	for i := 0; i < importBatchSize+3; i++ {
		fmt.Fprintf(&sb, "CA-2024-%06d,1/1/2024,Widget,10,1\n", i)
	}

	n, err := svc.ImportCSV(context.Background(), strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != importBatchSize+3 {
		t.Fatalf("imported %d rows, want %d", n, importBatchSize+3)
	}
	if len(repo.rows) != importBatchSize+3 {
		t.Fatalf("stored %d rows, want %d", len(repo.rows), importBatchSize+3)
	}
}

func TestAssignRandomIsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	batch := make([]Order, 25)
	for i := range batch {
		batch[i] = Order{ID: fmt.Sprintf("ord-%02d", i), OrderRef: fmt.Sprintf("CA-%02d-0", i)}
	}
	if err := repo.InsertBatch(context.Background(), batch); err != nil {
		t.Fatalf("seed: %v", err)
	}

	assigned, already, err := svc.AssignRandom(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if already || assigned != assignmentCount {
		t.Fatalf("assigned = %d already = %v, want %d false", assigned, already, assignmentCount)
	}

	assigned, already, err = svc.AssignRandom(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if !already || assigned != 0 {
		t.Fatalf("second call assigned = %d already = %v, want 0 true", assigned, already)
	}

	list, err := svc.ListForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != assignmentCount {
		t.Fatalf("user holds %d orders, want %d", len(list), assignmentCount)
	}
}

func TestAssignRandomCapsAtAvailableOrders(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	if err := repo.InsertBatch(context.Background(), []Order{{ID: "ord-1"}, {ID: "ord-2"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	assigned, _, err := svc.AssignRandom(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned != 2 {
		t.Fatalf("assigned = %d, want 2", assigned)
	}
}

func TestAssignRandomWithNoOrders(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, _, err := svc.AssignRandom(context.Background(), "user-1"); !errors.Is(err, ErrNoOrders) {
		t.Fatalf("err = %v, want ErrNoOrders", err)
	}
}
