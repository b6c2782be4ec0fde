package main

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"os"
	"slices"
	"strconv"
	"strings"
)

func main() {
	inputPath := os.Args[1]
	outputPath := os.Args[2]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		panic(err)
	}

	var input Input
	err = json.Unmarshal(data, &input)
	if err != nil {
		panic(err)
	}

	file, err := fileFromInput(&input)
	if err != nil {
		panic(err)
	}

	output, err := fileToString(file)
	if err != nil {
		panic(err)
	}

	if outputPath == "-" {
		fmt.Print(output)
	} else {
		err = os.WriteFile(outputPath, []byte(output), 0o666)
		if err != nil {
			panic(err)
		}
	}
}

func fileFromInput(input *Input) (*ast.File, error) {
	dynamic := slices.Sorted(slices.Values(input.Dynamic))
	keywords := slices.Sorted(slices.Values(input.Keywords))

	if !slices.Contains(dynamic, input.Identifier) {
		return nil, fmt.Errorf("identifier token %q is not a dynamic token", input.Identifier)
	}

	file := new(ast.File)
	file.Name = ast.NewIdent("token")

	file.Decls = append(file.Decls, &ast.GenDecl{
		Tok: token.TYPE,
		Specs: []ast.Spec{
			&ast.TypeSpec{
				Name: ast.NewIdent("Type"),
				Type: ast.NewIdent("int"),
			},
		},
	})

	tokenCount := len(dynamic) + len(keywords) + 1

	specs := make([]ast.Spec, 0, tokenCount)
	values := make([]ast.Expr, 0, tokenCount)

	specs = append(specs, &ast.ValueSpec{
		Names:  []*ast.Ident{ast.NewIdent("Invalid")},
		Type:   ast.NewIdent("Type"),
		Values: []ast.Expr{ast.NewIdent("iota")},
	})

	values = append(values, &ast.BasicLit{
		Kind:  token.STRING,
		Value: "\"<invalid>\"",
	})

	for _, name := range dynamic {
		specs = append(specs, &ast.ValueSpec{
			Names: []*ast.Ident{ast.NewIdent(exportName(name))},
		})
		values = append(values, &ast.BasicLit{
			Kind:  token.STRING,
			Value: strconv.Quote("<" + name + ">"),
		})
	}

	for _, name := range keywords {
		specs = append(specs, &ast.ValueSpec{
			Names: []*ast.Ident{ast.NewIdent(exportName(name))},
		})
		values = append(values, &ast.BasicLit{
			Kind:  token.STRING,
			Value: strconv.Quote(name),
		})
	}

	file.Decls = append(file.Decls, &ast.GenDecl{
		Tok:    token.CONST,
		Lparen: 1,
		Specs:  specs,
		Rparen: 1,
	})

	file.Decls = append(file.Decls, &ast.FuncDecl{
		Recv: &ast.FieldList{
			List: []*ast.Field{{
				Names: []*ast.Ident{ast.NewIdent("t")},
				Type:  ast.NewIdent("Type"),
			}},
		},
		Name: ast.NewIdent("String"),
		Type: &ast.FuncType{
			Results: &ast.FieldList{List: []*ast.Field{{Type: ast.NewIdent("string")}}},
		},
		Body: &ast.BlockStmt{
			List: []ast.Stmt{
				&ast.IfStmt{
					Cond: &ast.BinaryExpr{
						X: &ast.BinaryExpr{
							X:  ast.NewIdent("t"),
							Op: token.LSS,
							Y:  &ast.BasicLit{Kind: token.INT, Value: "0"},
						},
						Op: token.LOR,
						Y: &ast.BinaryExpr{
							X:  ast.NewIdent("t"),
							Op: token.GTR,
							Y:  specs[len(specs)-1].(*ast.ValueSpec).Names[0],
						},
					},
					Body: &ast.BlockStmt{
						List: []ast.Stmt{
							&ast.AssignStmt{
								Lhs: []ast.Expr{ast.NewIdent("t")},
								Tok: token.ASSIGN,
								Rhs: []ast.Expr{ast.NewIdent("Invalid")},
							},
						},
					},
				},
				&ast.ReturnStmt{
					Results: []ast.Expr{
						&ast.IndexExpr{
							X:     ast.NewIdent("names"),
							Index: ast.NewIdent("t"),
						},
					},
				},
			},
		},
	})

	file.Decls = append(file.Decls, &ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{&ast.ValueSpec{
			Names: []*ast.Ident{ast.NewIdent("names")},
			Values: []ast.Expr{&ast.CompositeLit{
				Type: &ast.ArrayType{Elt: ast.NewIdent("string")},
				Elts: values,
			}},
		}},
	})

	file.Decls = append(file.Decls, lookupFunc(keywords, exportName(input.Identifier)))

	return file, nil
}

// lookupFunc builds a switch from keyword text to its token type, falling
// back to the identifier token.
func lookupFunc(keywords []string, identifier string) *ast.FuncDecl {
	clauses := make([]ast.Stmt, 0, len(keywords)+1)
	for _, name := range keywords {
		clauses = append(clauses, &ast.CaseClause{
			List: []ast.Expr{&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(name)}},
			Body: []ast.Stmt{&ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent(exportName(name))}}},
		})
	}
	clauses = append(clauses, &ast.CaseClause{
		Body: []ast.Stmt{&ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent(identifier)}}},
	})

	return &ast.FuncDecl{
		Name: ast.NewIdent("Lookup"),
		Type: &ast.FuncType{
			Params: &ast.FieldList{
				List: []*ast.Field{{
					Names: []*ast.Ident{ast.NewIdent("ident")},
					Type:  ast.NewIdent("string"),
				}},
			},
			Results: &ast.FieldList{List: []*ast.Field{{Type: ast.NewIdent("Type")}}},
		},
		Body: &ast.BlockStmt{
			List: []ast.Stmt{
				&ast.SwitchStmt{
					Tag:  ast.NewIdent("ident"),
					Body: &ast.BlockStmt{List: clauses},
				},
			},
		},
	}
}

func exportName(name string) string {
	return strings.ToTitle(name[:1]) + name[1:]
}

func fileToString(f *ast.File) (string, error) {
	var b strings.Builder
	b.WriteString("// Code generated by generate_tokens.go\n\n")
	err := format.Node(&b, token.NewFileSet(), f)
	return b.String(), err
}

type Input struct {
	Dynamic    []string `json:"dynamic"`
	Keywords   []string `json:"keywords"`
	Identifier string   `json:"identifier"`
}
