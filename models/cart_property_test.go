package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

type cartOp struct {
	ProductID int64
	Quantity  int
	Kind      int
}

func genCartOp() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(1, 6),
		gen.OneGenOf(
			gen.IntRange(-3, 10),
			gen.IntRange(MaxQuantity-10, MaxQuantity+10),
			gen.Const(math.MaxInt),
		),
		gen.IntRange(0, 2),
	).Map(func(v []interface{}) cartOp {
		return cartOp{ProductID: v[0].(int64), Quantity: v[1].(int), Kind: v[2].(int)}
	})
}

func applyOps(ops []cartOp) *Cart {
	cart := NewCart()
	for _, op := range ops {
		switch op.Kind {
		case 0:
			_ = cart.Add(Product{ID: op.ProductID, Name: "p", Price: decimal.NewFromInt(op.ProductID * 10)}, op.Quantity)
		case 1:
			_ = cart.Update(op.ProductID, op.Quantity)
		default:
			cart.Remove(op.ProductID)
		}
	}
	return cart
}

func TestCartProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("quantities stay within 1..MaxQuantity", prop.ForAll(
		func(ops []cartOp) bool {
			for _, e := range applyOps(ops).Snapshot() {
				if e.Quantity <= 0 || e.Quantity > MaxQuantity {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genCartOp()),
	))

	properties.Property("total price is the sum of line totals", prop.ForAll(
		func(ops []cartOp) bool {
			cart := applyOps(ops)
			sum := decimal.Zero
			count := 0
			for _, e := range cart.Snapshot() {
				sum = sum.Add(e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity))))
				count += e.Quantity
			}
			return cart.TotalPrice().Equal(sum) && cart.TotalItemCount() == count
		},
		gen.SliceOf(genCartOp()),
	))

	properties.Property("remove is idempotent", prop.ForAll(
		func(ops []cartOp, id int64) bool {
			once := applyOps(ops)
			once.Remove(id)
			twice := applyOps(ops)
			twice.Remove(id)
			twice.Remove(id)
			return !once.Contains(id) && len(once.Snapshot()) == len(twice.Snapshot())
		},
		gen.SliceOf(genCartOp()),
		gen.Int64Range(1, 6),
	))

	properties.Property("session blob round trips", prop.ForAll(
		func(ops []cartOp) bool {
			cart := applyOps(ops)
			data, err := json.Marshal(cart)
			if err != nil {
				return false
			}
			decoded := NewCart()
			if err := json.Unmarshal(data, decoded); err != nil {
				return false
			}
			a, b := cart.Snapshot(), decoded.Snapshot()
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity || !a[i].UnitPrice.Equal(b[i].UnitPrice) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genCartOp()),
	))

	properties.Property("reconcile leaves only live products", prop.ForAll(
		func(ops []cartOp, liveIDs []int64) bool {
			cart := applyOps(ops)
			live := map[int64]Product{}
			for _, id := range liveIDs {
				live[id] = Product{ID: id}
			}
			before := cart.Len()
			removed := cart.Reconcile(live)
			for _, id := range cart.ProductIDs() {
				if _, ok := live[id]; !ok {
					return false
				}
			}
			return before == cart.Len()+len(removed)
		},
		gen.SliceOf(genCartOp()),
		gen.SliceOf(gen.Int64Range(1, 6)),
	))

	properties.TestingRun(t)
}
